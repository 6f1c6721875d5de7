package component

// Timer counts elapsed seconds toward Duration. A one-shot timer stops at
// Duration and stays finished until Reset; a repeating timer wraps and reports
// each completion from Tick.
type Timer struct {
	Duration  float64
	Elapsed   float64
	Repeating bool
}

func NewTimer(seconds float64) Timer {
	return Timer{Duration: seconds}
}

func NewRepeatingTimer(seconds float64) Timer {
	return Timer{Duration: seconds, Repeating: true}
}

// NewFinishedTimer returns a one-shot timer that is already finished, the
// starting state for attack cooldowns so the first hit is not delayed.
func NewFinishedTimer(seconds float64) Timer {
	return Timer{Duration: seconds, Elapsed: seconds}
}

// Tick advances the timer and reports whether it completed during this call.
func (t *Timer) Tick(dt float64) bool {
	if dt <= 0 || t.Duration <= 0 {
		return false
	}
	if !t.Repeating {
		if t.Elapsed >= t.Duration {
			return false
		}
		t.Elapsed += dt
		if t.Elapsed >= t.Duration {
			t.Elapsed = t.Duration
			return true
		}
		return false
	}
	t.Elapsed += dt
	if t.Elapsed < t.Duration {
		return false
	}
	for t.Elapsed >= t.Duration {
		t.Elapsed -= t.Duration
	}
	return true
}

// Finished reports whether a one-shot timer has run out.
func (t Timer) Finished() bool {
	return t.Elapsed >= t.Duration
}

func (t *Timer) Reset() {
	t.Elapsed = 0
}

// Finish jumps a timer to its end.
func (t *Timer) Finish() {
	t.Elapsed = t.Duration
}

// Fraction is elapsed/duration in [0,1].
func (t Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	f := t.Elapsed / t.Duration
	if f > 1 {
		return 1
	}
	return f
}

func (t Timer) Remaining() float64 {
	r := t.Duration - t.Elapsed
	if r < 0 {
		return 0
	}
	return r
}

package component

type Stamina struct {
	Current float64
	Max     float64
	Regen   float64 // per second
}

func NewStamina(max, regen float64) Stamina {
	return Stamina{Current: max, Max: max, Regen: regen}
}

// TrySpend deducts cost only when the full amount is available.
func (s *Stamina) TrySpend(cost float64) bool {
	if cost < 0 || s.Current < cost {
		return false
	}
	s.Current -= cost
	return true
}

func (s *Stamina) Recover(dt float64) {
	if dt <= 0 || s.Current >= s.Max {
		return
	}
	s.Current = min(s.Max, s.Current+s.Regen*dt)
}

func (s *Stamina) Refill() {
	s.Current = s.Max
}

func (s Stamina) Fraction() float64 {
	if s.Max <= 0 {
		return 0
	}
	return s.Current / s.Max
}

var StaminaComponent = NewComponent[Stamina]()

package component

// DeathEffect marks a defeated enemy fading out. The entity is removed when
// Fade finishes.
type DeathEffect struct {
	Fade  Timer
	Alpha float64
}

func NewDeathEffect(seconds float64) DeathEffect {
	return DeathEffect{Fade: NewTimer(seconds), Alpha: 1}
}

var DeathEffectComponent = NewComponent[DeathEffect]()

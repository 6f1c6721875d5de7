package component

// Poisoned deals DamagePerTick every time Tick completes, until cured.
type Poisoned struct {
	Tick          Timer
	DamagePerTick int
}

func NewPoisoned(tickSeconds float64, damagePerTick int) Poisoned {
	return Poisoned{Tick: NewRepeatingTimer(tickSeconds), DamagePerTick: damagePerTick}
}

var PoisonedComponent = NewComponent[Poisoned]()

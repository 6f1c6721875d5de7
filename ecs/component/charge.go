package component

import "github.com/jakecoffman/cp"

// Charge drives the cyclops wind-up/charge maneuver.
type Charge struct {
	Windup     Timer
	Dash       Timer
	Cooldown   Timer
	Ready      bool
	Facing     cp.Vector
	Multiplier float64
}

func NewCharge(windup, dash, cooldown, multiplier float64) Charge {
	return Charge{
		Windup:     NewTimer(windup),
		Dash:       NewTimer(dash),
		Cooldown:   NewTimer(cooldown),
		Ready:      true,
		Facing:     cp.Vector{X: 1},
		Multiplier: multiplier,
	}
}

// Rearm restores the charge to its spawn state.
func (c *Charge) Rearm() {
	c.Windup.Reset()
	c.Dash.Reset()
	c.Cooldown.Reset()
	c.Ready = true
	c.Facing = cp.Vector{X: 1}
}

var ChargeComponent = NewComponent[Charge]()

package component

import "github.com/jakecoffman/cp"

// PlayerInput is written by the host each tick.
type PlayerInput struct {
	Move     cp.Vector
	Aim      cp.Vector
	Attack   bool
	Interact bool
}

// Reticle remembers the last non-zero aim, snapped to an axis.
type Reticle struct {
	LastDirection cp.Vector
}

// Swing is the weapon swing in progress. Arc is the swept angle range in
// radians.
type Swing struct {
	Timer    Timer
	ArcStart float64
	ArcEnd   float64
}

// PendingSwings counts swings started this tick that melee resolution has
// not consumed yet.
type PendingSwings struct {
	Count int
}

type Equipment struct {
	WeaponLevel int
	ShieldLevel int
}

type Progression struct {
	Level int
	XP    int
}

type PlayerStats struct {
	Speed  float64
	Radius float64
}

var PlayerInputComponent = NewComponent[PlayerInput]()
var ReticleComponent = NewComponent[Reticle]()
var SwingComponent = NewComponent[Swing]()
var PendingSwingsComponent = NewComponent[PendingSwings]()
var EquipmentComponent = NewComponent[Equipment]()
var ProgressionComponent = NewComponent[Progression]()
var PlayerStatsComponent = NewComponent[PlayerStats]()

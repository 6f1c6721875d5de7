package component

import "github.com/jakecoffman/cp"

type ProjectileKind int

const (
	ProjectileBolt ProjectileKind = iota
	ProjectileWeb
)

func (k ProjectileKind) String() string {
	if k == ProjectileWeb {
		return "web"
	}
	return "bolt"
}

// Projectile integrates Velocity each tick until Lifetime runs out, it is
// occluded by a wall or door, or it hits the player. Webs are capsules of
// HalfLength along their velocity; bolts are points.
type Projectile struct {
	Kind          ProjectileKind
	Velocity      cp.Vector
	Attack        int
	Lifetime      Timer
	HalfLength    float64
	HitRadius     float64
	PoisonSeconds float64
	PoisonDamage  int
}

var ProjectileComponent = NewComponent[Projectile]()

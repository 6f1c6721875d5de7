package component

// Caster is the boss ranged attack: it kites between CastMinDistance and the
// attack radius and fires bolts on Cooldown.
type Caster struct {
	Cooldown        Timer
	Radius          float64
	CastMinDistance float64
	BoltSpeed       float64
	BoltLifetime    float64
	BoltHitRadius   float64
	SpawnOffset     float64
}

// WebShooter is the spider ranged attack.
type WebShooter struct {
	Cooldown      Timer
	MinDistance   float64
	Radius        float64
	Speed         float64
	Lifetime      float64
	HalfLength    float64
	HitRadius     float64
	SpawnOffset   float64
	PoisonSeconds float64
	PoisonDamage  int
}

var CasterComponent = NewComponent[Caster]()
var WebShooterComponent = NewComponent[WebShooter]()

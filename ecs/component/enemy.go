package component

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

// EnemyKind is the closed set of enemy behaviours. Systems switch on it
// rather than dispatching through per-kind types.
type EnemyKind int

const (
	EnemySlime EnemyKind = iota
	EnemyCyclops
	EnemySpider
	EnemyMimic
	EnemyBoss
)

var enemyKindNames = [...]string{"slime", "cyclops", "spider", "mimic", "boss"}

func (k EnemyKind) String() string {
	if k < 0 || int(k) >= len(enemyKindNames) {
		return fmt.Sprintf("EnemyKind(%d)", int(k))
	}
	return enemyKindNames[k]
}

func ParseEnemyKind(s string) (EnemyKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range enemyKindNames {
		if name == s {
			return EnemyKind(i), nil
		}
	}
	return 0, fmt.Errorf("component: unknown enemy kind %q", s)
}

// UnmarshalText lets tuning files key enemies by name.
func (k *EnemyKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEnemyKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k EnemyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Enemy struct {
	Kind   EnemyKind
	Name   string
	XP     int
	Serial int
}

// Patrol is the horizontal band an enemy paces. Origin.Y is the row that
// patrol, wind-up and charge movement pin the enemy to.
type Patrol struct {
	Origin    cp.Vector
	Range     float64
	Direction float64
}

func (p Patrol) Bounds() (float64, float64) {
	return p.Origin.X - p.Range, p.Origin.X + p.Range
}

// ClampX hard-limits x to the patrol band.
func (p Patrol) ClampX(x float64) float64 {
	lo, hi := p.Bounds()
	return cp.Clamp(x, lo, hi)
}

type Alert struct {
	Trigger float64
	Leash   float64
}

type Movement struct {
	PatrolSpeed float64
	ChaseSpeed  float64
}

// ContactAttack is the proximity pulse: one hit per completed cooldown while
// the player is within Radius.
type ContactAttack struct {
	Radius   float64
	Cooldown Timer
}

var EnemyComponent = NewComponent[Enemy]()
var PatrolComponent = NewComponent[Patrol]()
var AlertComponent = NewComponent[Alert]()
var MovementComponent = NewComponent[Movement]()
var ContactAttackComponent = NewComponent[ContactAttack]()

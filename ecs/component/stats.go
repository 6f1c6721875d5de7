package component

import "math"

// StatBlock is an adjustable integer stat: base plus flat bonus, scaled by a
// multiplier that never drops below zero.
type StatBlock struct {
	Base       int
	Bonus      int
	Multiplier float64
}

func NewStatBlock(base int) StatBlock {
	return StatBlock{Base: base, Multiplier: 1}
}

// Value is round((base+bonus)*multiplier).
func (s StatBlock) Value() int {
	m := s.Multiplier
	if m < 0 {
		m = 0
	}
	return int(math.Round(float64(s.Base+s.Bonus) * m))
}

func (s *StatBlock) AdjustBonus(delta int) {
	s.Bonus += delta
}

func (s *StatBlock) ResetModifiers() {
	s.Bonus = 0
	s.Multiplier = 1
}

type Attack struct {
	StatBlock
}

type Defense struct {
	StatBlock
}

func NewAttack(base int) Attack   { return Attack{NewStatBlock(base)} }
func NewDefense(base int) Defense { return Defense{NewStatBlock(base)} }

// ComputeDamage resolves one hit. A nil defense means the target has no
// defense stat at all. Damage is never below 1 and defense never heals.
func ComputeDamage(attack int, defense *Defense) int {
	dmg := attack
	if defense != nil {
		dmg -= max(0, defense.Value())
	}
	return max(1, dmg)
}

var AttackComponent = NewComponent[Attack]()
var DefenseComponent = NewComponent[Defense]()

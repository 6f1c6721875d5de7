package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// NewEnemy spawns a ground enemy from its placement and tuning. The entity
// starts at the planned tile, patrolling.
func NewEnemy(w *ecs.World, spawn placement.EnemySpawn, spec prefabs.EnemySpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := addEnemyCore(w, e, spawn.Kind, spawn.Serial, spec, spawn.Pos, spawn.Patrol); err != nil {
		return 0, err
	}

	switch spawn.Kind {
	case component.EnemyCyclops:
		if spec.Charge == nil {
			return 0, fmt.Errorf("enemy: %s has no charge tuning", spawn.Kind)
		}
		charge := component.NewCharge(spec.Charge.Windup, spec.Charge.Duration, spec.Charge.Cooldown, spec.Charge.Multiplier)
		charge.Cooldown.Finish()
		if err := ecs.Add(w, e, component.ChargeComponent.Kind(), &charge); err != nil {
			return 0, fmt.Errorf("enemy: add charge: %w", err)
		}
	case component.EnemySpider:
		if spec.Ranged == nil {
			return 0, fmt.Errorf("enemy: %s has no ranged tuning", spawn.Kind)
		}
		r := spec.Ranged
		if err := ecs.Add(w, e, component.WebShooterComponent.Kind(), &component.WebShooter{
			Cooldown:      component.NewFinishedTimer(r.Cooldown),
			MinDistance:   r.MinDistance,
			Radius:        r.Radius,
			Speed:         r.Speed,
			Lifetime:      r.Lifetime,
			HalfLength:    r.HalfLength,
			HitRadius:     r.HitRadius,
			SpawnOffset:   r.SpawnOffset,
			PoisonSeconds: r.PoisonSeconds,
			PoisonDamage:  r.PoisonDamage,
		}); err != nil {
			return 0, fmt.Errorf("enemy: add web shooter: %w", err)
		}
	}
	return e, nil
}

// NewBoss spawns the level boss with stats already scaled by placement.
func NewBoss(w *ecs.World, spawn placement.BossSpawn, spec prefabs.EnemySpec) (ecs.Entity, error) {
	if spec.Ranged == nil {
		return 0, fmt.Errorf("boss: missing ranged tuning")
	}
	spec.Health = spawn.Health
	spec.Attack = spawn.Attack
	spec.Defense = spawn.Defense

	e := ecs.CreateEntity(w)
	patrol := component.Patrol{Origin: spawn.Pos, Range: spec.PatrolRange, Direction: 1}
	if err := addEnemyCore(w, e, component.EnemyBoss, spawn.Serial, spec, spawn.Pos, patrol); err != nil {
		return 0, err
	}
	r := spec.Ranged
	if err := ecs.Add(w, e, component.CasterComponent.Kind(), &component.Caster{
		Cooldown:        component.NewFinishedTimer(r.Cooldown),
		Radius:          r.Radius,
		CastMinDistance: r.CastMinDistance,
		BoltSpeed:       r.Speed,
		BoltLifetime:    r.Lifetime,
		BoltHitRadius:   r.HitRadius,
		SpawnOffset:     r.SpawnOffset,
	}); err != nil {
		return 0, fmt.Errorf("boss: add caster: %w", err)
	}
	if err := ecs.Add(w, e, component.BossTagComponent.Kind(), &component.BossTag{}); err != nil {
		return 0, fmt.Errorf("boss: add tag: %w", err)
	}
	return e, nil
}

// AwakenMimic turns a chest entity into a chasing mimic in place.
func AwakenMimic(w *ecs.World, chest ecs.Entity, spec prefabs.EnemySpec) error {
	t, ok := ecs.Get(w, chest, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("mimic: chest has no transform")
	}
	origin := t.Pos()
	patrol := component.Patrol{Origin: origin, Range: spec.PatrolRange, Direction: 1}
	if err := addEnemyCore(w, chest, component.EnemyMimic, 1, spec, origin, patrol); err != nil {
		return err
	}
	if b, ok := ecs.Get(w, chest, component.BehaviorComponent.Kind()); ok {
		b.State = component.StateChasing
	}
	return nil
}

func addEnemyCore(w *ecs.World, e ecs.Entity, kind component.EnemyKind, serial int, spec prefabs.EnemySpec, pos cp.Vector, patrol component.Patrol) error {
	name := spec.Name
	if name == "" {
		name = kind.String()
	}
	if err := ecs.Add(w, e, component.EnemyComponent.Kind(), &component.Enemy{
		Kind:   kind,
		Name:   name,
		XP:     spec.XP,
		Serial: serial,
	}); err != nil {
		return fmt.Errorf("enemy: add enemy: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return fmt.Errorf("enemy: add transform: %w", err)
	}
	health := component.NewHealth(spec.Health)
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), &health); err != nil {
		return fmt.Errorf("enemy: add health: %w", err)
	}
	attack := component.NewAttack(spec.Attack)
	if err := ecs.Add(w, e, component.AttackComponent.Kind(), &attack); err != nil {
		return fmt.Errorf("enemy: add attack: %w", err)
	}
	defense := component.NewDefense(spec.Defense)
	if err := ecs.Add(w, e, component.DefenseComponent.Kind(), &defense); err != nil {
		return fmt.Errorf("enemy: add defense: %w", err)
	}
	if patrol.Direction == 0 {
		patrol.Direction = 1
	}
	if err := ecs.Add(w, e, component.PatrolComponent.Kind(), &patrol); err != nil {
		return fmt.Errorf("enemy: add patrol: %w", err)
	}
	if err := ecs.Add(w, e, component.AlertComponent.Kind(), &component.Alert{
		Trigger: spec.AlertRadius,
		Leash:   spec.LeashRadius,
	}); err != nil {
		return fmt.Errorf("enemy: add alert: %w", err)
	}
	if err := ecs.Add(w, e, component.MovementComponent.Kind(), &component.Movement{
		PatrolSpeed: spec.PatrolSpeed,
		ChaseSpeed:  spec.ChaseSpeed,
	}); err != nil {
		return fmt.Errorf("enemy: add movement: %w", err)
	}
	if err := ecs.Add(w, e, component.BehaviorComponent.Kind(), &component.Behavior{State: component.StatePatrolling}); err != nil {
		return fmt.Errorf("enemy: add behavior: %w", err)
	}
	if spec.AttackRadius > 0 && kind != component.EnemySpider && kind != component.EnemyBoss {
		if err := ecs.Add(w, e, component.ContactAttackComponent.Kind(), &component.ContactAttack{
			Radius:   spec.AttackRadius,
			Cooldown: component.NewFinishedTimer(spec.AttackCooldown),
		}); err != nil {
			return fmt.Errorf("enemy: add contact attack: %w", err)
		}
	}
	if err := ecs.Add(w, e, component.LevelScopedComponent.Kind(), &component.LevelScoped{}); err != nil {
		return fmt.Errorf("enemy: add level scope: %w", err)
	}
	return nil
}

// ResetEnemy restores an enemy to its spawn state: full health, back at its
// patrol origin, patrolling, with every cooldown ready.
func ResetEnemy(w *ecs.World, e ecs.Entity) {
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		h.Refill()
	}
	if p, ok := ecs.Get(w, e, component.PatrolComponent.Kind()); ok {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.SetPos(p.Origin)
		}
		if p.Direction >= 0 {
			p.Direction = 1
		} else {
			p.Direction = -1
		}
	}
	if b, ok := ecs.Get(w, e, component.BehaviorComponent.Kind()); ok {
		b.State = component.StatePatrolling
	}
	if a, ok := ecs.Get(w, e, component.ContactAttackComponent.Kind()); ok {
		a.Cooldown.Finish()
	}
	if c, ok := ecs.Get(w, e, component.ChargeComponent.Kind()); ok {
		c.Rearm()
		c.Cooldown.Finish()
	}
	if s, ok := ecs.Get(w, e, component.WebShooterComponent.Kind()); ok {
		s.Cooldown.Finish()
	}
	if c, ok := ecs.Get(w, e, component.CasterComponent.Kind()); ok {
		c.Cooldown.Finish()
	}
	ecs.Remove(w, e, component.DeathEffectComponent.Kind())
}

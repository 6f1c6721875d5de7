package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
)

// NewBolt fires a boss bolt from pos along dir.
func NewBolt(w *ecs.World, pos, dir cp.Vector, attack int, c *component.Caster) (ecs.Entity, error) {
	return newProjectile(w, pos, &component.Projectile{
		Kind:      component.ProjectileBolt,
		Velocity:  dir.Normalize().Mult(c.BoltSpeed),
		Attack:    attack,
		Lifetime:  component.NewTimer(c.BoltLifetime),
		HitRadius: c.BoltHitRadius,
	})
}

// NewWeb fires a spider web capsule centred on pos, travelling along dir.
func NewWeb(w *ecs.World, pos, dir cp.Vector, attack int, s *component.WebShooter) (ecs.Entity, error) {
	return newProjectile(w, pos, &component.Projectile{
		Kind:          component.ProjectileWeb,
		Velocity:      dir.Normalize().Mult(s.Speed),
		Attack:        attack,
		Lifetime:      component.NewTimer(s.Lifetime),
		HalfLength:    s.HalfLength,
		HitRadius:     s.HitRadius,
		PoisonSeconds: s.PoisonSeconds,
		PoisonDamage:  s.PoisonDamage,
	})
}

func newProjectile(w *ecs.World, pos cp.Vector, p *component.Projectile) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ProjectileComponent.Kind(), p); err != nil {
		return 0, fmt.Errorf("projectile: add projectile: %w", err)
	}
	if err := addPlaced(w, e, pos); err != nil {
		return 0, fmt.Errorf("projectile: %w", err)
	}
	return e, nil
}

// DespawnProjectiles removes every projectile in flight.
func DespawnProjectiles(w *ecs.World) {
	for _, e := range ecs.Collect(w, component.ProjectileComponent.Kind()) {
		ecs.DestroyEntity(w, e)
	}
}

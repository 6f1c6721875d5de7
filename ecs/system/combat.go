package system

import (
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
)

// target is the player as seen by anything that damages it.
type target struct {
	e       ecs.Entity
	health  *component.Health
	defense *component.Defense
}

// livePlayer returns the player when it can still take damage.
func livePlayer(w *ecs.World) (target, bool) {
	e, _, ok := entity.Player(w)
	if !ok || ecs.Has(w, e, component.PlayerDeadComponent.Kind()) {
		return target{}, false
	}
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || h.Dead() {
		return target{}, false
	}
	d, _ := ecs.Get(w, e, component.DefenseComponent.Kind())
	return target{e: e, health: h, defense: d}, true
}

// hit applies one attack to the player and reports it.
func (t target) hit(w *ecs.World, attack int) int {
	dmg := component.ComputeDamage(attack, t.defense)
	t.health.Damage(dmg)
	w.Emit(component.PlayerDamagedEvent{Damage: dmg, Remaining: t.health.Current})
	return dmg
}

// ContactAttackSystem pulses proximity damage from every melee enemy. Bosses
// and spiders only hurt through projectiles.
type ContactAttackSystem struct{}

func NewContactAttackSystem() *ContactAttackSystem {
	return &ContactAttackSystem{}
}

func (s *ContactAttackSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	_, playerPos, ok := entity.Player(w)
	if !ok {
		return
	}

	for _, e := range ecs.Collect(w, component.ContactAttackComponent.Kind()) {
		enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
		if !ok || enemy.Kind == component.EnemyBoss || enemy.Kind == component.EnemySpider {
			continue
		}
		if ecs.Has(w, e, component.DeathEffectComponent.Kind()) {
			continue
		}
		attack, _ := ecs.Get(w, e, component.ContactAttackComponent.Kind())
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		attack.Cooldown.Tick(dt)
		if tr.Pos().Distance(playerPos) > attack.Radius || !attack.Cooldown.Finished() {
			continue
		}
		player, ok := livePlayer(w)
		if !ok {
			return
		}
		player.hit(w, attackOf(w, e))
		attack.Cooldown.Reset()
	}
}

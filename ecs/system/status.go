package system

import (
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
)

// PoisonSystem deals poison damage on every completed poison tick.
type PoisonSystem struct{}

func NewPoisonSystem() *PoisonSystem {
	return &PoisonSystem{}
}

func (s *PoisonSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.PoisonedComponent.Kind(), func(e ecs.Entity, p *component.Poisoned) {
		if !p.Tick.Tick(dt) {
			return
		}
		player, ok := livePlayer(w)
		if !ok || player.e != e {
			return
		}
		dmg := player.health.Damage(p.DamagePerTick)
		w.Emit(component.PlayerDamagedEvent{Damage: dmg, Remaining: player.health.Current})
	})
}

// StaminaSystem regenerates stamina while the attack input is released.
type StaminaSystem struct{}

func NewStaminaSystem() *StaminaSystem {
	return &StaminaSystem{}
}

func (s *StaminaSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	e, _, ok := entity.Player(w)
	if !ok {
		return
	}
	stamina, ok := ecs.Get(w, e, component.StaminaComponent.Kind())
	if !ok {
		return
	}
	if input, ok := ecs.Get(w, e, component.PlayerInputComponent.Kind()); ok && input.Attack {
		return
	}
	stamina.Recover(dt)
}

package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/common"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
)

// PlayerMovementSystem applies the move input and keeps the reticle on the
// last aim direction, snapped to an axis.
type PlayerMovementSystem struct{}

func NewPlayerMovementSystem() *PlayerMovementSystem {
	return &PlayerMovementSystem{}
}

func (s *PlayerMovementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	e, _, ok := entity.Player(w)
	if !ok || ecs.Has(w, e, component.PlayerDeadComponent.Kind()) {
		return
	}
	input, ok := ecs.Get(w, e, component.PlayerInputComponent.Kind())
	if !ok {
		return
	}

	if reticle, ok := ecs.Get(w, e, component.ReticleComponent.Kind()); ok {
		aim := input.Aim
		if aim == (cp.Vector{}) {
			aim = input.Move
		}
		reticle.LastDirection = common.SnapToAxis(aim, reticle.LastDirection)
	}

	dir := common.NormalizeOrZero(input.Move)
	if dir == (cp.Vector{}) {
		return
	}
	stats, ok := ecs.Get(w, e, component.PlayerStatsComponent.Kind())
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	tr.SetPos(tr.Pos().Add(dir.Mult(stats.Speed * dt)))
}

package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/common"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// SwingSystem turns the attack input into swings. A swing starts only when
// the previous one has finished and the stamina cost can be paid in full.
type SwingSystem struct {
	tuning *prefabs.Tuning
}

func NewSwingSystem(tuning *prefabs.Tuning) *SwingSystem {
	return &SwingSystem{tuning: tuning}
}

func (s *SwingSystem) Update(w *ecs.World, dt float64) {
	if w == nil || s.tuning == nil {
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
	swing, ok := ecs.Get(w, e, component.SwingComponent.Kind())
	if !ok {
		return
	}
	stamina, ok := ecs.Get(w, e, component.StaminaComponent.Kind())
	if !ok {
		return
	}
	pending, ok := ecs.Get(w, e, component.PendingSwingsComponent.Kind())
	if !ok {
		return
	}

	swing.Timer.Tick(dt)
	if !input.Attack || !swing.Timer.Finished() {
		return
	}
	if !stamina.TrySpend(s.tuning.Player.AttackStaminaCost) {
		return
	}
	swing.Timer.Reset()
	facing := swingFacing(w, e)
	angle := math.Atan2(facing.Y, facing.X)
	half := math.Acos(cp.Clamp(s.tuning.Player.FacingCosThreshold, -1, 1))
	swing.ArcStart = angle - half
	swing.ArcEnd = angle + half
	pending.Count++
}

// MeleeSystem resolves the swings queued this tick against every enemy in
// front of the player.
type MeleeSystem struct {
	tuning *prefabs.Tuning
}

func NewMeleeSystem(tuning *prefabs.Tuning) *MeleeSystem {
	return &MeleeSystem{tuning: tuning}
}

func (s *MeleeSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.tuning == nil {
		return
	}
	e, pos, ok := entity.Player(w)
	if !ok {
		return
	}
	pending, ok := ecs.Get(w, e, component.PendingSwingsComponent.Kind())
	if !ok || pending.Count == 0 {
		return
	}
	swings := pending.Count
	pending.Count = 0

	spec := s.tuning.Player
	facing := swingFacing(w, e)
	centre := pos.Add(facing.Mult(spec.ReticleDistance))
	total := attackOf(w, e) * swings

	hits := 0
	for _, enemy := range ecs.Collect(w, component.EnemyComponent.Kind()) {
		if ecs.Has(w, enemy, component.DeathEffectComponent.Kind()) {
			continue
		}
		tr, ok := ecs.Get(w, enemy, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		health, ok := ecs.Get(w, enemy, component.HealthComponent.Kind())
		if !ok || health.Dead() {
			continue
		}
		if tr.Pos().Distance(centre) > spec.AttackRadius {
			continue
		}
		if dir := common.NormalizeOrZero(tr.Pos().Sub(pos)); dir != (cp.Vector{}) && dir.Dot(facing) < spec.FacingCosThreshold {
			continue
		}
		defense, _ := ecs.Get(w, enemy, component.DefenseComponent.Kind())
		health.Damage(component.ComputeDamage(total, defense))
		hits++
	}
	w.Emit(component.MeleeSwingEvent{Hits: hits})
}

func swingFacing(w *ecs.World, player ecs.Entity) cp.Vector {
	right := cp.Vector{X: 1}
	reticle, ok := ecs.Get(w, player, component.ReticleComponent.Kind())
	if !ok {
		return right
	}
	return common.SnapToAxis(reticle.LastDirection, right)
}

package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// NewPlayer spawns the player at pos with level 1 stats. The player is not
// level scoped and survives level changes.
func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec, pos cp.Vector) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	health := component.NewHealth(spec.Health)
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), &health); err != nil {
		return 0, fmt.Errorf("player: add health: %w", err)
	}
	attack := component.NewAttack(0)
	if err := ecs.Add(w, e, component.AttackComponent.Kind(), &attack); err != nil {
		return 0, fmt.Errorf("player: add attack: %w", err)
	}
	defense := component.NewDefense(0)
	if err := ecs.Add(w, e, component.DefenseComponent.Kind(), &defense); err != nil {
		return 0, fmt.Errorf("player: add defense: %w", err)
	}
	stamina := component.NewStamina(spec.StaminaMax, spec.StaminaRegen)
	if err := ecs.Add(w, e, component.StaminaComponent.Kind(), &stamina); err != nil {
		return 0, fmt.Errorf("player: add stamina: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerInputComponent.Kind(), &component.PlayerInput{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.ReticleComponent.Kind(), &component.Reticle{LastDirection: cp.Vector{X: 1}}); err != nil {
		return 0, fmt.Errorf("player: add reticle: %w", err)
	}
	if err := ecs.Add(w, e, component.SwingComponent.Kind(), &component.Swing{Timer: component.NewFinishedTimer(spec.SwingSeconds)}); err != nil {
		return 0, fmt.Errorf("player: add swing: %w", err)
	}
	if err := ecs.Add(w, e, component.PendingSwingsComponent.Kind(), &component.PendingSwings{}); err != nil {
		return 0, fmt.Errorf("player: add pending swings: %w", err)
	}
	if err := ecs.Add(w, e, component.EquipmentComponent.Kind(), &component.Equipment{}); err != nil {
		return 0, fmt.Errorf("player: add equipment: %w", err)
	}
	if err := ecs.Add(w, e, component.ProgressionComponent.Kind(), &component.Progression{Level: 1}); err != nil {
		return 0, fmt.Errorf("player: add progression: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerStatsComponent.Kind(), &component.PlayerStats{
		Speed:  spec.Speed,
		Radius: spec.Radius,
	}); err != nil {
		return 0, fmt.Errorf("player: add stats: %w", err)
	}
	RefreshPlayerStats(w, e, spec)
	return e, nil
}

// RefreshPlayerStats recomputes attack and defense from the player's level
// and equipment. Bases come from the progression tables, bonuses from the
// weapon and shield tables.
func RefreshPlayerStats(w *ecs.World, e ecs.Entity, spec prefabs.PlayerSpec) {
	level := 1
	if p, ok := ecs.Get(w, e, component.ProgressionComponent.Kind()); ok {
		level = max(1, p.Level)
	}
	var eq component.Equipment
	if got, ok := ecs.Get(w, e, component.EquipmentComponent.Kind()); ok {
		eq = *got
	}
	if a, ok := ecs.Get(w, e, component.AttackComponent.Kind()); ok {
		a.Base = levelStat(spec.Progression.Attack, level)
		a.ResetModifiers()
		a.AdjustBonus(spec.WeaponBonusFor(eq.WeaponLevel))
	}
	if d, ok := ecs.Get(w, e, component.DefenseComponent.Kind()); ok {
		d.Base = levelStat(spec.Progression.Defense, level)
		d.ResetModifiers()
		d.AdjustBonus(spec.ShieldBonusFor(eq.ShieldLevel))
	}
}

func levelStat(table []int, level int) int {
	if len(table) == 0 {
		return 0
	}
	return table[max(0, min(level-1, len(table)-1))]
}

// Player returns the player entity and its position.
func Player(w *ecs.World) (ecs.Entity, cp.Vector, bool) {
	e, _, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, cp.Vector{}, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, cp.Vector{}, false
	}
	return e, t.Pos(), true
}

// SnapshotPlayer captures the stats boss scaling reads. Missing components
// fall back to the placement defaults.
func SnapshotPlayer(w *ecs.World) placement.PlayerSnapshot {
	snap := placement.DefaultOptions().Player
	e, _, ok := Player(w)
	if !ok {
		return snap
	}
	if a, ok := ecs.Get(w, e, component.AttackComponent.Kind()); ok {
		snap.Attack = a.Value()
	}
	if d, ok := ecs.Get(w, e, component.DefenseComponent.Kind()); ok {
		snap.Defense = d.Value()
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		snap.MaxHealth = h.Max
	}
	return snap
}

// EnableAutopilot hands the player's input to AutopilotSystem.
func EnableAutopilot(w *ecs.World, e ecs.Entity, engageRange float64) error {
	if err := ecs.Add(w, e, component.AutopilotComponent.Kind(), &component.Autopilot{EngageRange: engageRange}); err != nil {
		return fmt.Errorf("player: add autopilot: %w", err)
	}
	if err := ecs.Add(w, e, component.RouteComponent.Kind(), &component.Route{}); err != nil {
		return fmt.Errorf("player: add route: %w", err)
	}
	return nil
}

package system

import (
	"log/slog"
	"math"

	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// ChestSystem opens the nearest closed chest on interact. Item chests reveal
// their content after a short delay; mimics wake up instead.
type ChestSystem struct {
	tuning *prefabs.Tuning
}

func NewChestSystem(tuning *prefabs.Tuning) *ChestSystem {
	return &ChestSystem{tuning: tuning}
}

func (s *ChestSystem) Update(w *ecs.World, dt float64) {
	if w == nil || s.tuning == nil {
		return
	}
	player, pos, ok := entity.Player(w)
	if !ok {
		return
	}

	ecs.ForEach(w, component.ChestComponent.Kind(), func(e ecs.Entity, c *component.Chest) {
		if c.State != component.ChestRevealing || !c.Reveal.Tick(dt) {
			return
		}
		c.State = component.ChestOpened
		applyItem(w, player, c.Item, s.tuning.Player)
		w.Emit(component.ChestOpenedEvent{Slot: c.Slot, Item: c.Item})
	})

	input, ok := ecs.Get(w, player, component.PlayerInputComponent.Kind())
	if !ok || !input.Interact || ecs.Has(w, player, component.PlayerDeadComponent.Kind()) {
		return
	}

	var (
		nearest ecs.Entity
		best    = math.Inf(1)
	)
	for _, e := range ecs.Collect(w, component.ChestComponent.Kind()) {
		c, _ := ecs.Get(w, e, component.ChestComponent.Kind())
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || c.State != component.ChestClosed {
			continue
		}
		if d := tr.Pos().Distance(pos); d <= s.tuning.Player.InteractRadius && d < best {
			nearest, best = e, d
		}
	}
	if nearest == 0 {
		return
	}
	// The chest consumes the interaction so the door does not also toggle.
	input.Interact = false

	c, _ := ecs.Get(w, nearest, component.ChestComponent.Kind())
	if !c.Mimic {
		c.State = component.ChestRevealing
		c.Reveal.Reset()
		return
	}
	spec, err := s.tuning.Bestiary.Enemy(component.EnemyMimic.String())
	if err != nil {
		slog.Warn("mimic tuning missing", "err", err)
		return
	}
	spec.PatrolSpeed = 0
	if err := entity.AwakenMimic(w, nearest, spec); err != nil {
		slog.Warn("mimic awaken failed", "err", err)
		return
	}
	c.State = component.ChestMimicAwakened
	w.Emit(component.ChestOpenedEvent{Slot: c.Slot, Mimic: true})
}

// DoorSystem toggles the entrance door when the player interacts near it.
type DoorSystem struct {
	tuning *prefabs.Tuning
}

func NewDoorSystem(tuning *prefabs.Tuning) *DoorSystem {
	return &DoorSystem{tuning: tuning}
}

func (s *DoorSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.tuning == nil {
		return
	}
	player, pos, ok := entity.Player(w)
	if !ok {
		return
	}
	input, ok := ecs.Get(w, player, component.PlayerInputComponent.Kind())
	if !ok || !input.Interact {
		return
	}
	rt, ok := entity.LevelRuntime(w)
	if !ok {
		return
	}

	ecs.ForEach2(w, component.DoorComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, door *component.Door, tr *component.Transform) {
		if tr.Pos().Distance(pos) > s.tuning.Player.InteractRadius {
			return
		}
		door.Open = !door.Open
		rt.Grid.SetDoorOpen(door.Open)
		w.Emit(component.DoorStateChangedEvent{Open: door.Open})
	})
}

// PickupSystem collects loot the player walks over.
type PickupSystem struct {
	tuning *prefabs.Tuning
}

func NewPickupSystem(tuning *prefabs.Tuning) *PickupSystem {
	return &PickupSystem{tuning: tuning}
}

func (s *PickupSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.tuning == nil {
		return
	}
	player, pos, ok := entity.Player(w)
	if !ok || ecs.Has(w, player, component.PlayerDeadComponent.Kind()) {
		return
	}
	for _, e := range ecs.Collect(w, component.PickupComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.PickupComponent.Kind())
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || tr.Pos().Distance(pos) > p.Radius {
			continue
		}
		applyItem(w, player, p.Item, s.tuning.Player)
		ecs.DestroyEntity(w, e)
	}
}

// applyItem consumes an elixir or equips an upgrade. Equipment never
// downgrades.
func applyItem(w *ecs.World, player ecs.Entity, item component.Item, spec prefabs.PlayerSpec) {
	switch item.Kind {
	case component.ItemHeal:
		if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok {
			h.Heal(spec.HealAmount)
		}
	case component.ItemRestoreStamina:
		if st, ok := ecs.Get(w, player, component.StaminaComponent.Kind()); ok {
			st.Refill()
		}
	case component.ItemCurePoison:
		ecs.Remove(w, player, component.PoisonedComponent.Kind())
	case component.ItemWeapon, component.ItemShield:
		eq, ok := ecs.Get(w, player, component.EquipmentComponent.Kind())
		if !ok {
			return
		}
		if item.Kind == component.ItemWeapon {
			eq.WeaponLevel = max(eq.WeaponLevel, item.Level)
		} else {
			eq.ShieldLevel = max(eq.ShieldLevel, item.Level)
		}
		entity.RefreshPlayerStats(w, player, spec)
	}
	w.Emit(component.ItemCollectedEvent{Item: item})
}

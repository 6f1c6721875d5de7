package entity

import (
	"fmt"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// NewLevelState creates the orchestrator singleton. The first layout is
// requested for start.
func NewLevelState(w *ecs.World, start int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	target := start
	if err := ecs.Add(w, e, component.LevelStateComponent.Kind(), &component.LevelState{
		Current:       start,
		PendingLayout: &target,
	}); err != nil {
		return 0, fmt.Errorf("level: add state: %w", err)
	}
	if err := ecs.Add(w, e, component.LevelRuntimeComponent.Kind(), &component.LevelRuntime{Index: start}); err != nil {
		return 0, fmt.Errorf("level: add runtime: %w", err)
	}
	if err := ecs.Add(w, e, component.LevelRewardsComponent.Kind(), &component.LevelRewards{}); err != nil {
		return 0, fmt.Errorf("level: add rewards: %w", err)
	}
	return e, nil
}

// LevelRuntime returns the shared per-level context, if a level exists.
func LevelRuntime(w *ecs.World) (*component.LevelRuntime, bool) {
	_, rt, ok := ecs.First(w, component.LevelRuntimeComponent.Kind())
	if !ok || rt.Grid == nil {
		return nil, false
	}
	return rt, true
}

func NewDoor(w *ecs.World, tile layout.GridPos, pos cp.Vector) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.DoorComponent.Kind(), &component.Door{Tile: tile}); err != nil {
		return 0, fmt.Errorf("door: add door: %w", err)
	}
	if err := addPlaced(w, e, pos); err != nil {
		return 0, fmt.Errorf("door: %w", err)
	}
	return e, nil
}

func NewProp(w *ecs.World, spawn placement.PropSpawn, blocks bool, radius float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PropComponent.Kind(), &component.Prop{
		Kind:   spawn.Kind,
		Blocks: blocks,
		Radius: radius,
	}); err != nil {
		return 0, fmt.Errorf("prop: add prop: %w", err)
	}
	if err := addPlaced(w, e, spawn.Pos); err != nil {
		return 0, fmt.Errorf("prop: %w", err)
	}
	return e, nil
}

func NewChest(w *ecs.World, spawn placement.ChestSpawn, revealSeconds float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ChestComponent.Kind(), &component.Chest{
		Mimic:  spawn.Mimic,
		Item:   spawn.Item,
		State:  component.ChestClosed,
		Reveal: component.NewTimer(revealSeconds),
		Slot:   spawn.Slot,
	}); err != nil {
		return 0, fmt.Errorf("chest: add chest: %w", err)
	}
	if err := addPlaced(w, e, spawn.Pos); err != nil {
		return 0, fmt.Errorf("chest: %w", err)
	}
	return e, nil
}

func NewExitPortal(w *ecs.World, pos cp.Vector, target int, radius float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ExitPortalComponent.Kind(), &component.ExitPortal{Target: target, Radius: radius}); err != nil {
		return 0, fmt.Errorf("portal: add portal: %w", err)
	}
	if err := addPlaced(w, e, pos); err != nil {
		return 0, fmt.Errorf("portal: %w", err)
	}
	return e, nil
}

func NewPickup(w *ecs.World, pos cp.Vector, item component.Item, radius float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{Item: item, Radius: radius}); err != nil {
		return 0, fmt.Errorf("pickup: add pickup: %w", err)
	}
	if err := addPlaced(w, e, pos); err != nil {
		return 0, fmt.Errorf("pickup: %w", err)
	}
	return e, nil
}

func addPlaced(w *ecs.World, e ecs.Entity, pos cp.Vector) error {
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return fmt.Errorf("add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.LevelScopedComponent.Kind(), &component.LevelScoped{}); err != nil {
		return fmt.Errorf("add level scope: %w", err)
	}
	return nil
}

// ItemFromSpec converts a tuning file item.
func ItemFromSpec(spec prefabs.ItemSpec) (component.Item, error) {
	kind, err := component.ParseItemKind(spec.Kind)
	if err != nil {
		return component.Item{}, err
	}
	return component.Item{Kind: kind, Level: spec.Level}, nil
}

// SpawnPlan materialises a placement result: the door, chests, props,
// enemies and bosses, all level scoped.
func SpawnPlan(w *ecs.World, res *placement.Result, t *prefabs.Tuning) error {
	if res == nil || t == nil {
		return nil
	}
	if _, err := NewDoor(w, res.Door, res.DoorPos); err != nil {
		return err
	}
	for _, c := range res.Chests {
		if _, err := NewChest(w, c, t.Player.ChestRevealSeconds); err != nil {
			return err
		}
	}
	for _, p := range res.Props {
		blocks := slices.Contains(t.Rewards.BlockingProps, p.Kind.String())
		if _, err := NewProp(w, p, blocks, t.Rewards.PropRadius); err != nil {
			return err
		}
	}
	for _, spawn := range res.Enemies {
		spec, err := t.Bestiary.Enemy(spawn.Kind.String())
		if err != nil {
			return err
		}
		if _, err := NewEnemy(w, spawn, spec); err != nil {
			return err
		}
	}
	for _, spawn := range res.Bosses {
		spec, err := t.Bestiary.Enemy(component.EnemyBoss.String())
		if err != nil {
			return err
		}
		if _, err := NewBoss(w, spawn, spec); err != nil {
			return err
		}
	}
	return nil
}

// DespawnLevel destroys every level scoped entity and returns how many went.
func DespawnLevel(w *ecs.World) int {
	n := 0
	for _, e := range ecs.Collect(w, component.LevelScopedComponent.Kind()) {
		if ecs.DestroyEntity(w, e) {
			n++
		}
	}
	return n
}

// RequestLevel asks the orchestrator to build level target. The request rides
// on the level state singleton.
func RequestLevel(w *ecs.World, target int) error {
	e, _, ok := ecs.First(w, component.LevelStateComponent.Kind())
	if !ok {
		return fmt.Errorf("level: no level state")
	}
	return ecs.Add(w, e, component.LevelAdvanceRequestComponent.Kind(), &component.LevelAdvanceRequest{Target: target})
}

// RequestRespawn asks the orchestrator to restore the player and the enemy
// roster.
func RequestRespawn(w *ecs.World) error {
	e, _, ok := Player(w)
	if !ok {
		return fmt.Errorf("respawn: no player")
	}
	return ecs.Add(w, e, component.PlayerRespawnRequestComponent.Kind(), &component.PlayerRespawnRequest{})
}

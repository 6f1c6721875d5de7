package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interact(t *testing.T, w *ecs.World, player ecs.Entity) {
	t.Helper()
	input, ok := ecs.Get(w, player, component.PlayerInputComponent.Kind())
	require.True(t, ok)
	input.Interact = true
}

func TestItemChestReveals(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	chest, err := entity.NewChest(w, placement.ChestSpawn{
		Slot: 1,
		Pos:  cp.Vector{X: 30},
		Item: component.Item{Kind: component.ItemWeapon, Level: 3},
	}, 0.6)
	require.NoError(t, err)

	interact(t, w, player)
	sys := NewChestSystem(tuning)
	step(w, 0.2, sys)
	c, _ := ecs.Get(w, chest, component.ChestComponent.Kind())
	assert.Equal(t, component.ChestRevealing, c.State)

	var opened []component.ChestOpenedEvent
	for range 3 {
		opened = append(opened, ecs.EventsOf[component.ChestOpenedEvent](step(w, 0.2, sys))...)
	}
	require.Len(t, opened, 1)
	assert.Equal(t, 1, opened[0].Slot)
	assert.Equal(t, component.ChestOpened, c.State)

	a, _ := ecs.Get(w, player, component.AttackComponent.Kind())
	assert.Equal(t, 10+tuning.Player.WeaponBonus[3], a.Value())
}

func TestMimicChestAwakens(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	chest, err := entity.NewChest(w, placement.ChestSpawn{Pos: cp.Vector{X: 30}, Mimic: true}, 0.6)
	require.NoError(t, err)

	interact(t, w, player)
	events := step(w, 0.1, NewChestSystem(tuning))
	opened := ecs.EventsOf[component.ChestOpenedEvent](events)
	require.Len(t, opened, 1)
	assert.True(t, opened[0].Mimic)

	enemy, ok := ecs.Get(w, chest, component.EnemyComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.EnemyMimic, enemy.Kind)
	assert.Equal(t, component.StateChasing, state(t, w, chest))
	move, _ := ecs.Get(w, chest, component.MovementComponent.Kind())
	assert.Zero(t, move.PatrolSpeed)
}

func TestChestOutOfReach(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	chest, err := entity.NewChest(w, placement.ChestSpawn{Pos: cp.Vector{X: 500}}, 0.6)
	require.NoError(t, err)

	interact(t, w, player)
	step(w, 0.1, NewChestSystem(tuning))
	c, _ := ecs.Get(w, chest, component.ChestComponent.Kind())
	assert.Equal(t, component.ChestClosed, c.State)
}

func TestDoorToggle(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	_, err := entity.NewLevelState(w, 0)
	require.NoError(t, err)
	rt, _ := ecs.Get(w, mustFirst(t, w), component.LevelRuntimeComponent.Kind())
	rt.Grid = layout.NewGrid()
	rt.Grid.Stamp(layout.Tile{Pos: layout.GridPos{Y: -1}, Kind: layout.DoorClosed})
	_, err = entity.NewDoor(w, layout.GridPos{Y: -1}, cp.Vector{Y: -64})
	require.NoError(t, err)

	interact(t, w, player)
	events := step(w, 0.1, NewDoorSystem(tuning))
	changed := ecs.EventsOf[component.DoorStateChangedEvent](events)
	require.Len(t, changed, 1)
	assert.True(t, changed[0].Open)
	assert.False(t, rt.Grid.Blocking(layout.GridPos{Y: -1}))
	assert.Equal(t, 1, rt.Grid.ProjectilePriorityAt(cp.Vector{Y: -64}))

	events = step(w, 0.1, NewDoorSystem(tuning))
	changed = ecs.EventsOf[component.DoorStateChangedEvent](events)
	require.Len(t, changed, 1)
	assert.False(t, changed[0].Open)
	assert.True(t, rt.Grid.Blocking(layout.GridPos{Y: -1}))
}

func TestPickupApplies(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	h.Damage(50)
	status := component.NewPoisoned(1, 2)
	require.NoError(t, ecs.Add(w, player, component.PoisonedComponent.Kind(), &status))

	_, err := entity.NewPickup(w, cp.Vector{X: 10}, component.Item{Kind: component.ItemHeal}, 40)
	require.NoError(t, err)
	_, err = entity.NewPickup(w, cp.Vector{X: -10}, component.Item{Kind: component.ItemCurePoison}, 40)
	require.NoError(t, err)
	far, err := entity.NewPickup(w, cp.Vector{X: 400}, component.Item{Kind: component.ItemHeal}, 40)
	require.NoError(t, err)

	events := step(w, 0.1, NewPickupSystem(tuning))
	assert.Len(t, ecs.EventsOf[component.ItemCollectedEvent](events), 2)
	assert.Equal(t, 50+tuning.Player.HealAmount, h.Current)
	assert.False(t, ecs.Has(w, player, component.PoisonedComponent.Kind()))
	assert.True(t, ecs.IsAlive(w, far))
}

func TestCollisionPushesOutOfWalls(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	_, err := entity.NewLevelState(w, 0)
	require.NoError(t, err)
	rt, _ := ecs.Get(w, mustFirst(t, w), component.LevelRuntimeComponent.Kind())
	rt.Grid = layout.NewGrid()
	rt.Grid.Stamp(layout.Tile{Pos: layout.GridPos{X: 1}, Kind: layout.WallESide})

	movePlayer(t, w, player, cp.Vector{X: 40})
	step(w, 0.1, NewCollisionSystem())
	pos := position(t, w, player)
	assert.InDelta(t, 64-(64*0.7+1), pos.X, 1e-9)

	_, err = entity.NewProp(w, placement.PropSpawn{Kind: component.PropRock, Pos: cp.Vector{X: -200}}, true, tuning.Rewards.PropRadius)
	require.NoError(t, err)
	movePlayer(t, w, player, cp.Vector{X: -190})
	step(w, 0.1, NewCollisionSystem())
	assert.InDelta(t, -200+tuning.Rewards.PropRadius+1, position(t, w, player).X, 1e-9)
}

func TestPlayerMovementAndReticle(t *testing.T) {
	w, _, player := newTestWorld(t)
	input, _ := ecs.Get(w, player, component.PlayerInputComponent.Kind())
	input.Move = cp.Vector{X: 0.2, Y: 1}

	step(w, 0.5, NewPlayerMovementSystem())
	pos := position(t, w, player)
	assert.InDelta(t, 150, pos.Length(), 1e-9)

	reticle, _ := ecs.Get(w, player, component.ReticleComponent.Kind())
	assert.Equal(t, cp.Vector{Y: 1}, reticle.LastDirection)

	input.Move = cp.Vector{}
	input.Aim = cp.Vector{X: -3, Y: 1}
	step(w, 0.5, NewPlayerMovementSystem())
	assert.Equal(t, cp.Vector{X: -1}, reticle.LastDirection)

	input.Aim = cp.Vector{}
	step(w, 0.5, NewPlayerMovementSystem())
	assert.Equal(t, cp.Vector{X: -1}, reticle.LastDirection, "reticle keeps the last aim")
}

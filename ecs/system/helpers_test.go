package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/milk9111/dungeoncrawler/prefabs"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) (*ecs.World, *prefabs.Tuning, ecs.Entity) {
	t.Helper()
	tuning, err := prefabs.LoadTuning()
	require.NoError(t, err)
	w := ecs.NewWorld()
	player, err := entity.NewPlayer(w, tuning.Player, cp.Vector{})
	require.NoError(t, err)
	return w, tuning, player
}

func spawnEnemy(t *testing.T, w *ecs.World, tuning *prefabs.Tuning, kind component.EnemyKind, origin cp.Vector, patrolRange float64) ecs.Entity {
	t.Helper()
	spec, err := tuning.Bestiary.Enemy(kind.String())
	require.NoError(t, err)
	e, err := entity.NewEnemy(w, placement.EnemySpawn{
		Kind:   kind,
		Serial: 1,
		Pos:    origin,
		Patrol: component.Patrol{Origin: origin, Range: patrolRange, Direction: 1},
	}, spec)
	require.NoError(t, err)
	return e
}

func spawnBoss(t *testing.T, w *ecs.World, tuning *prefabs.Tuning, pos cp.Vector) ecs.Entity {
	t.Helper()
	spec, err := tuning.Bestiary.Enemy(component.EnemyBoss.String())
	require.NoError(t, err)
	e, err := entity.NewBoss(w, placement.BossSpawn{Serial: 1, Pos: pos, Health: 110, Attack: 11, Defense: 4}, spec)
	require.NoError(t, err)
	return e
}

func movePlayer(t *testing.T, w *ecs.World, player ecs.Entity, pos cp.Vector) {
	t.Helper()
	tr, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	require.True(t, ok)
	tr.SetPos(pos)
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) cp.Vector {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	return tr.Pos()
}

func state(t *testing.T, w *ecs.World, e ecs.Entity) component.BehaviorState {
	t.Helper()
	b, ok := ecs.Get(w, e, component.BehaviorComponent.Kind())
	require.True(t, ok)
	return b.State
}

// step runs systems once and returns the events raised during the tick.
func step(w *ecs.World, dt float64, systems ...ecs.System) []ecs.Event {
	ecs.NewScheduler(systems...).Update(w, dt)
	return w.Events().Drain()
}

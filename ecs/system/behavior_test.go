package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlimePatrolStaysInBand(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	movePlayer(t, w, player, cp.Vector{X: 5000, Y: 5000})
	slime := spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{X: 100, Y: 64}, 120)
	sys := NewBehaviorSystem()

	flips := 0
	last := 1.0
	for range 400 {
		step(w, 0.1, sys)
		pos := position(t, w, slime)
		require.GreaterOrEqual(t, pos.X, -20.0)
		require.LessOrEqual(t, pos.X, 220.0)
		require.Equal(t, 64.0, pos.Y)
		p, _ := ecs.Get(w, slime, component.PatrolComponent.Kind())
		if p.Direction != last {
			flips++
			last = p.Direction
		}
	}
	assert.Equal(t, component.StatePatrolling, state(t, w, slime))
	assert.Greater(t, flips, 2)
}

func TestSlimeChaseAndLeash(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	slime := spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{}, 120)
	sys := NewBehaviorSystem()

	movePlayer(t, w, player, cp.Vector{X: 150, Y: 80})
	step(w, 0.1, sys)
	assert.Equal(t, component.StateChasing, state(t, w, slime))

	before := position(t, w, slime).Distance(cp.Vector{X: 150, Y: 80})
	step(w, 0.1, sys)
	after := position(t, w, slime).Distance(cp.Vector{X: 150, Y: 80})
	assert.InDelta(t, before-9, after, 1e-6, "chase moves at chase speed")

	movePlayer(t, w, player, cp.Vector{X: 2000})
	step(w, 0.1, sys)
	assert.Equal(t, component.StatePatrolling, state(t, w, slime))
	p, _ := ecs.Get(w, slime, component.PatrolComponent.Kind())
	assert.Equal(t, -1.0, p.Direction, "leashed slime heads back to origin")
}

func TestSlimeDegradesManeuver(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	movePlayer(t, w, player, cp.Vector{X: 5000})
	slime := spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{}, 120)
	b, _ := ecs.Get(w, slime, component.BehaviorComponent.Kind())
	b.State = component.StateCharging

	step(w, 0.1, NewBehaviorSystem())
	assert.Equal(t, component.StatePatrolling, state(t, w, slime))
}

func TestCyclopsChargeCycle(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	cyclops := spawnEnemy(t, w, tuning, component.EnemyCyclops, cp.Vector{}, 140)
	movePlayer(t, w, player, cp.Vector{X: 100, Y: 30})
	sys := NewBehaviorSystem()

	step(w, 0.05, sys)
	require.Equal(t, component.StateWindUp, state(t, w, cyclops))
	assert.Equal(t, cp.Vector{}, position(t, w, cyclops), "wind-up holds position")

	seen := map[component.BehaviorState]bool{}
	for range 200 {
		step(w, 0.05, sys)
		s := state(t, w, cyclops)
		seen[s] = true
		pos := position(t, w, cyclops)
		require.GreaterOrEqual(t, pos.X, -140.0)
		require.LessOrEqual(t, pos.X, 140.0)
		if s == component.StatePatrolling {
			break
		}
	}
	require.True(t, seen[component.StateCharging])
	require.True(t, seen[component.StatePatrolling])

	charge, _ := ecs.Get(w, cyclops, component.ChargeComponent.Kind())
	assert.False(t, charge.Ready)
	assert.Greater(t, charge.Facing.X, 0.0)
	p, _ := ecs.Get(w, cyclops, component.PatrolComponent.Kind())
	assert.Equal(t, 1.0, p.Direction)

	// Not ready yet: the next contact chases instead of winding up.
	step(w, 0.05, sys)
	assert.Equal(t, component.StateChasing, state(t, w, cyclops))
}

func TestCyclopsLeashTurnsHome(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	cyclops := spawnEnemy(t, w, tuning, component.EnemyCyclops, cp.Vector{}, 140)
	movePlayer(t, w, player, cp.Vector{X: 1000})
	tr, _ := ecs.Get(w, cyclops, component.TransformComponent.Kind())
	tr.SetPos(cp.Vector{X: 100})
	b, _ := ecs.Get(w, cyclops, component.BehaviorComponent.Kind())
	b.State = component.StateChasing
	charge, _ := ecs.Get(w, cyclops, component.ChargeComponent.Kind())
	charge.Ready = false
	charge.Cooldown.Reset()

	step(w, 0.05, NewBehaviorSystem())
	require.Equal(t, component.StatePatrolling, state(t, w, cyclops))
	p, _ := ecs.Get(w, cyclops, component.PatrolComponent.Kind())
	assert.Equal(t, -1.0, p.Direction)
	assert.Less(t, position(t, w, cyclops).X, 100.0)
}

func TestSpiderWebAndRetreat(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	spider := spawnEnemy(t, w, tuning, component.EnemySpider, cp.Vector{}, 200)
	movePlayer(t, w, player, cp.Vector{X: 200})
	sys := NewBehaviorSystem()

	step(w, 0.1, sys)
	require.Equal(t, 1, ecs.Count(w, component.ProjectileComponent.Kind()))
	_, web, _ := ecs.First(w, component.ProjectileComponent.Kind())
	assert.Equal(t, component.ProjectileWeb, web.Kind)
	assert.Greater(t, web.Velocity.X, 0.0)
	assert.Equal(t, component.StatePatrolling, state(t, w, spider))

	step(w, 0.1, sys)
	assert.Equal(t, 1, ecs.Count(w, component.ProjectileComponent.Kind()), "cooldown gates the next web")

	movePlayer(t, w, player, position(t, w, spider).Add(cp.Vector{X: 40}))
	before := position(t, w, spider).X
	step(w, 0.1, sys)
	assert.Less(t, position(t, w, spider).X, before, "spider backs away")
}

func TestBossCastsWithinRadius(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	boss := spawnBoss(t, w, tuning, cp.Vector{})
	movePlayer(t, w, player, cp.Vector{X: 250})

	events := step(w, 0.1, NewBehaviorSystem())
	casts := ecs.EventsOf[component.SpellCastEvent](events)
	require.Len(t, casts, 1)
	assert.Equal(t, "Wizard", casts[0].Caster)
	assert.Equal(t, component.StateChasing, state(t, w, boss))

	_, bolt, ok := ecs.First(w, component.ProjectileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.ProjectileBolt, bolt.Kind)
	assert.Equal(t, 11, bolt.Attack)

	movePlayer(t, w, player, cp.Vector{X: 5000})
	step(w, 0.1, NewBehaviorSystem())
	assert.Equal(t, component.StatePatrolling, state(t, w, boss))
}

func TestBossRetreatsWhenCrowded(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	boss := spawnBoss(t, w, tuning, cp.Vector{})
	movePlayer(t, w, player, cp.Vector{X: 50})

	step(w, 0.1, NewBehaviorSystem())
	assert.Less(t, position(t, w, boss).X, 0.0)
	assert.Equal(t, 0.0, position(t, w, boss).Y)
}

package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactAttackPulses(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{X: 10}, 120)
	sys := NewContactAttackSystem()

	events := step(w, 0.25, sys)
	damaged := ecs.EventsOf[component.PlayerDamagedEvent](events)
	require.Len(t, damaged, 1)
	assert.Equal(t, component.PlayerDamagedEvent{Damage: 5, Remaining: 95}, damaged[0])

	total := 1
	for range 3 {
		total += len(ecs.EventsOf[component.PlayerDamagedEvent](step(w, 0.25, sys)))
	}
	assert.Equal(t, 1, total, "cooldown holds the next pulse")

	total += len(ecs.EventsOf[component.PlayerDamagedEvent](step(w, 0.25, sys)))
	assert.Equal(t, 2, total)

	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	assert.Equal(t, 90, h.Current)
}

func TestContactAttackSkipsRangedAndDying(t *testing.T) {
	w, tuning, _ := newTestWorld(t)
	spawnBoss(t, w, tuning, cp.Vector{X: 5})
	slime := spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{X: 5}, 120)
	fx := component.NewDeathEffect(0.6)
	require.NoError(t, ecs.Add(w, slime, component.DeathEffectComponent.Kind(), &fx))

	events := step(w, 0.25, NewContactAttackSystem())
	assert.Empty(t, ecs.EventsOf[component.PlayerDamagedEvent](events))
}

func TestMeleeSwingHitsFacingEnemies(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	front := spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{X: 60}, 120)
	behind := spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{X: -60}, 120)
	input, _ := ecs.Get(w, player, component.PlayerInputComponent.Kind())
	input.Attack = true

	swing, melee := NewSwingSystem(tuning), NewMeleeSystem(tuning)
	events := step(w, 0.05, swing, melee)

	swings := ecs.EventsOf[component.MeleeSwingEvent](events)
	require.Len(t, swings, 1)
	assert.Equal(t, 1, swings[0].Hits)

	hf, _ := ecs.Get(w, front, component.HealthComponent.Kind())
	hb, _ := ecs.Get(w, behind, component.HealthComponent.Kind())
	assert.Equal(t, 30-9, hf.Current)
	assert.Equal(t, 30, hb.Current)

	st, _ := ecs.Get(w, player, component.StaminaComponent.Kind())
	assert.Equal(t, 80.0, st.Current)

	events = step(w, 0.05, swing, melee)
	assert.Empty(t, ecs.EventsOf[component.MeleeSwingEvent](events), "swing still in progress")
}

func TestMeleeStacksQueuedSwings(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	front := spawnEnemy(t, w, tuning, component.EnemySlime, cp.Vector{X: 60}, 120)
	pending, _ := ecs.Get(w, player, component.PendingSwingsComponent.Kind())
	pending.Count = 2

	step(w, 0.05, NewMeleeSystem(tuning))
	h, _ := ecs.Get(w, front, component.HealthComponent.Kind())
	assert.Equal(t, 30-19, h.Current)
	assert.Zero(t, pending.Count)
}

func TestSwingNeedsStamina(t *testing.T) {
	w, tuning, player := newTestWorld(t)
	input, _ := ecs.Get(w, player, component.PlayerInputComponent.Kind())
	input.Attack = true
	st, _ := ecs.Get(w, player, component.StaminaComponent.Kind())
	st.Current = 5

	step(w, 0.05, NewSwingSystem(tuning))
	pending, _ := ecs.Get(w, player, component.PendingSwingsComponent.Kind())
	assert.Zero(t, pending.Count)
	assert.Equal(t, 5.0, st.Current)
}

func TestBoltHitsPlayer(t *testing.T) {
	w, _, player := newTestWorld(t)
	caster := &component.Caster{BoltSpeed: 320, BoltLifetime: 2.5, BoltHitRadius: 18}
	_, err := entity.NewBolt(w, cp.Vector{X: 100}, cp.Vector{X: -1}, 10, caster)
	require.NoError(t, err)

	var damaged []component.PlayerDamagedEvent
	for range 5 {
		damaged = append(damaged, ecs.EventsOf[component.PlayerDamagedEvent](step(w, 0.1, NewProjectileSystem()))...)
	}
	require.Len(t, damaged, 1)
	assert.Equal(t, 7, damaged[0].Damage)
	assert.Zero(t, ecs.Count(w, component.ProjectileComponent.Kind()))
	assert.False(t, ecs.Has(w, player, component.PoisonedComponent.Kind()))
}

func TestProjectileExpires(t *testing.T) {
	w, _, player := newTestWorld(t)
	movePlayer(t, w, player, cp.Vector{Y: 5000})
	caster := &component.Caster{BoltSpeed: 100, BoltLifetime: 0.5, BoltHitRadius: 18}
	_, err := entity.NewBolt(w, cp.Vector{}, cp.Vector{X: 1}, 10, caster)
	require.NoError(t, err)

	for range 6 {
		step(w, 0.125, NewProjectileSystem())
	}
	assert.Zero(t, ecs.Count(w, component.ProjectileComponent.Kind()))
}

func webShooter() *component.WebShooter {
	return &component.WebShooter{Speed: 260, Lifetime: 1.6, HalfLength: 14, HitRadius: 12, PoisonSeconds: 1, PoisonDamage: 2}
}

func TestWebPoisonsAndRefreshes(t *testing.T) {
	w, _, player := newTestWorld(t)
	_, err := entity.NewWeb(w, cp.Vector{X: -30}, cp.Vector{X: 1}, 6, webShooter())
	require.NoError(t, err)

	events := step(w, 0.1, NewProjectileSystem())
	damaged := ecs.EventsOf[component.PlayerDamagedEvent](events)
	require.Len(t, damaged, 1)
	assert.Equal(t, 3, damaged[0].Damage)

	poison, ok := ecs.Get(w, player, component.PoisonedComponent.Kind())
	require.True(t, ok)
	poison.Tick.Elapsed = 0.7

	_, err = entity.NewWeb(w, cp.Vector{X: -30}, cp.Vector{X: 1}, 6, webShooter())
	require.NoError(t, err)
	step(w, 0.1, NewProjectileSystem())
	assert.Zero(t, poison.Tick.Elapsed, "second web refreshes the poison")
}

func TestPoisonSkipsDestroyedPlayer(t *testing.T) {
	w, _, player := newTestWorld(t)
	require.True(t, ecs.DestroyEntity(w, player))

	web := &component.Projectile{Kind: component.ProjectileWeb, PoisonSeconds: 1, PoisonDamage: 2}
	assert.NotPanics(t, func() { poison(w, player, web) })
	assert.Zero(t, ecs.Count(w, component.PoisonedComponent.Kind()))
}

func TestWebCapsuleMissesOffAxis(t *testing.T) {
	w, _, player := newTestWorld(t)
	movePlayer(t, w, player, cp.Vector{X: 0, Y: 20})
	_, err := entity.NewWeb(w, cp.Vector{X: -30}, cp.Vector{X: 1}, 6, webShooter())
	require.NoError(t, err)

	events := step(w, 0.1, NewProjectileSystem())
	assert.Empty(t, ecs.EventsOf[component.PlayerDamagedEvent](events))
	assert.Equal(t, 1, ecs.Count(w, component.ProjectileComponent.Kind()))
}

func TestWebOcclusion(t *testing.T) {
	cases := []struct {
		name    string
		kind    layout.TileKind
		blocked bool
	}{
		{"wall", layout.WallESide, true},
		{"closed_door", layout.DoorClosed, true},
		{"open_door", layout.DoorOpen, false},
		{"floor", layout.Floor, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _, player := newTestWorld(t)
			movePlayer(t, w, player, cp.Vector{X: 500})
			_, err := entity.NewLevelState(w, 0)
			require.NoError(t, err)
			rt, ok := ecs.Get(w, mustFirst(t, w), component.LevelRuntimeComponent.Kind())
			require.True(t, ok)
			rt.Grid = layout.NewGrid()
			rt.Grid.Stamp(layout.Tile{Pos: layout.GridPos{X: 1}, Kind: tc.kind})

			_, err = entity.NewWeb(w, cp.Vector{X: 20}, cp.Vector{X: 1}, 6, webShooter())
			require.NoError(t, err)
			step(w, 0.1, NewProjectileSystem())
			assert.Equal(t, !tc.blocked, ecs.Count(w, component.ProjectileComponent.Kind()) == 1)
		})
	}
}

func mustFirst(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e, _, ok := ecs.First(w, component.LevelStateComponent.Kind())
	require.True(t, ok)
	return e
}

func TestPoisonTicks(t *testing.T) {
	w, _, player := newTestWorld(t)
	status := component.NewPoisoned(0.5, 2)
	require.NoError(t, ecs.Add(w, player, component.PoisonedComponent.Kind(), &status))

	var damaged []component.PlayerDamagedEvent
	for range 4 {
		damaged = append(damaged, ecs.EventsOf[component.PlayerDamagedEvent](step(w, 0.25, NewPoisonSystem()))...)
	}
	require.Len(t, damaged, 2)
	assert.Equal(t, component.PlayerDamagedEvent{Damage: 2, Remaining: 96}, damaged[1])
}

func TestStaminaRegenPausesWhileAttacking(t *testing.T) {
	w, _, player := newTestWorld(t)
	st, _ := ecs.Get(w, player, component.StaminaComponent.Kind())
	st.Current = 50
	input, _ := ecs.Get(w, player, component.PlayerInputComponent.Kind())

	input.Attack = true
	step(w, 1, NewStaminaSystem())
	assert.Equal(t, 50.0, st.Current)

	input.Attack = false
	step(w, 1, NewStaminaSystem())
	assert.Equal(t, 75.0, st.Current)
}

func TestPlayerDeath(t *testing.T) {
	w, _, player := newTestWorld(t)
	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	h.Damage(h.Max)

	events := step(w, 0.1, NewPlayerDeathSystem())
	assert.Len(t, ecs.EventsOf[component.PlayerDiedEvent](events), 1)
	assert.True(t, ecs.Has(w, player, component.PlayerDeadComponent.Kind()))

	events = step(w, 0.1, NewPlayerDeathSystem())
	assert.Empty(t, ecs.EventsOf[component.PlayerDiedEvent](events))
}

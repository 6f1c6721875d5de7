package main

import (
	"context"
	"testing"
	"time"

	"github.com/milk9111/dungeoncrawler/config"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, mutate func(*config.Sim)) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.MaxTicks = 10
	if mutate != nil {
		mutate(&cfg)
	}
	g, err := NewGame(cfg)
	require.NoError(t, err)
	return g
}

func TestGameLoadsStartLevel(t *testing.T) {
	g := newTestGame(t, nil)
	for !g.Done() {
		require.NoError(t, g.Update())
	}
	assert.Equal(t, 10, g.ticks)
	assert.Equal(t, 1, g.stats.levels)
	assert.Positive(t, ecs.Count(g.world, component.EnemyComponent.Kind()))
}

func TestGameRejectsStartLevelOutsideCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.StartLevel = 99
	_, err := NewGame(cfg)
	assert.Error(t, err)
}

func TestGameRunStopsAtTickCap(t *testing.T) {
	g := newTestGame(t, func(c *config.Sim) { c.MaxTicks = 30 })
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, g.Run(ctx, nil))
	assert.Equal(t, 30, g.ticks)
}

func TestGameRunHonoursCancel(t *testing.T) {
	g := newTestGame(t, func(c *config.Sim) { c.MaxTicks = 0 })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx, nil), context.Canceled)
}

func TestGameRespawnsAfterDeath(t *testing.T) {
	g := newTestGame(t, func(c *config.Sim) {
		c.MaxTicks = 0
		c.Autopilot.Enabled = false
		c.Autopilot.RespawnDelay = 100 * time.Millisecond
	})
	for range 3 {
		require.NoError(t, g.Update())
	}
	player, _, ok := entity.Player(g.world)
	require.True(t, ok)
	h, _ := ecs.Get(g.world, player, component.HealthComponent.Kind())
	h.Current = 0

	require.NoError(t, g.Update())
	assert.Equal(t, 1, g.stats.deaths)
	assert.True(t, ecs.Has(g.world, player, component.PlayerDeadComponent.Kind()))

	for range 10 {
		require.NoError(t, g.Update())
	}
	assert.False(t, ecs.Has(g.world, player, component.PlayerDeadComponent.Kind()))
	assert.Equal(t, h.Max, h.Current)
	assert.Equal(t, 1, g.stats.deaths)
}

func TestGameReloadSwapsTuningInPlace(t *testing.T) {
	g := newTestGame(t, nil)
	before := g.tuning
	g.tuning.Player.Speed = 1

	g.Reload(prefabs.Change{Path: "prefabs/player.yaml", Kind: prefabs.ChangeTuning})
	assert.Same(t, before, g.tuning)
	assert.NotEqual(t, 1.0, g.tuning.Player.Speed)

	g.Reload(prefabs.Change{Path: "prefabs/scripts/loot.tengo", Kind: prefabs.ChangeScript})
	g.Reload(prefabs.Change{Path: "levels/catalog.yaml", Kind: prefabs.ChangeCatalog})
	g.Reload(prefabs.Change{Path: "nowhere", Kind: prefabs.ChangeKind(42)})
	require.NoError(t, g.Update())
}

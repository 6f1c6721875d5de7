package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/config"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/ecs/system"
	"github.com/milk9111/dungeoncrawler/levels"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// Game is the headless simulation: one world stepped at a fixed rate.
type Game struct {
	cfg config.Sim

	world   *ecs.World
	tuning  *prefabs.Tuning
	levels  *system.LevelSystem
	defeat  *system.DefeatSystem
	systems *ecs.Scheduler

	ticks     int
	respawnIn float64
	dead      bool
	won       bool
	stats     runStats
}

type runStats struct {
	kills     int
	deaths    int
	levels    int
	items     int
	damage    int
	levelUps  int
	bossKills int
}

func NewGame(cfg config.Sim) (*Game, error) {
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		return nil, err
	}
	loot, err := system.LoadLootRoller()
	if err != nil {
		return nil, err
	}
	catalog, err := levels.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	if _, ok := catalog.Get(cfg.StartLevel); !ok {
		return nil, fmt.Errorf("game: start level %d outside catalog of %d", cfg.StartLevel, catalog.Len())
	}

	w := ecs.NewWorld()
	player, err := entity.NewPlayer(w, tuning.Player, cp.Vector{})
	if err != nil {
		return nil, err
	}
	if cfg.Autopilot.Enabled {
		if err := entity.EnableAutopilot(w, player, cfg.Autopilot.EngageRange); err != nil {
			return nil, err
		}
	}
	if _, err := entity.NewLevelState(w, cfg.StartLevel); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:    cfg,
		world:  w,
		tuning: tuning,
		levels: system.NewLevelSystem(catalog, tuning),
		defeat: system.NewDefeatSystem(tuning, loot),
	}
	g.systems = ecs.NewScheduler(
		system.NewAutopilotSystem(tuning),
		system.NewPlayerMovementSystem(),
		system.NewSwingSystem(tuning),
		system.NewBehaviorSystem(),
		system.NewMeleeSystem(tuning),
		system.NewProjectileSystem(),
		system.NewContactAttackSystem(),
		system.NewCollisionSystem(),
		system.NewPoisonSystem(),
		system.NewStaminaSystem(),
		g.defeat,
		system.NewPlayerDeathSystem(),
		system.NewProgressionSystem(tuning),
		system.NewChestSystem(tuning),
		system.NewDoorSystem(tuning),
		system.NewPickupSystem(tuning),
		g.levels,
	)
	return g, nil
}

// Done reports whether the run has ended by victory or by the tick cap.
func (g *Game) Done() bool {
	return g.won || (g.cfg.MaxTicks > 0 && g.ticks >= g.cfg.MaxTicks)
}

// Update advances the simulation by one fixed step.
func (g *Game) Update() error {
	dt := g.cfg.Step()
	g.ticks++

	if g.dead {
		g.respawnIn -= dt
		if g.respawnIn <= 0 {
			if err := entity.RequestRespawn(g.world); err != nil {
				return err
			}
			g.dead = false
		}
	}

	g.systems.Update(g.world, dt)
	g.observe(g.world.Events().Drain())
	return nil
}

func (g *Game) observe(events []ecs.Event) {
	for _, ev := range events {
		switch e := ev.Data.(type) {
		case component.LevelLoadedEvent:
			g.stats.levels++
			slog.Info("level loaded", "index", e.Index, "name", e.Name, "tick", g.ticks)
		case component.EnemyDefeatedEvent:
			g.stats.kills++
			if e.Kind == component.EnemyBoss {
				g.stats.bossKills++
			}
			slog.Info("enemy defeated", "name", e.Name, "kind", e.Kind, "xp", e.XP)
		case component.PlayerDamagedEvent:
			g.stats.damage += e.Damage
			slog.Debug("player damaged", "damage", e.Damage, "remaining", e.Remaining)
		case component.PlayerLevelUpEvent:
			g.stats.levelUps++
			slog.Info("player level up", "level", e.Level, "attack", e.Attack, "defense", e.Defense)
		case component.ItemCollectedEvent:
			g.stats.items++
			slog.Info("item collected", "item", e.Item.String())
		case component.ChestOpenedEvent:
			slog.Info("chest opened", "slot", e.Slot, "mimic", e.Mimic, "item", e.Item.String())
		case component.DoorStateChangedEvent:
			slog.Debug("door toggled", "open", e.Open)
		case component.SpellCastEvent:
			slog.Debug("spell cast", "caster", e.Caster)
		case component.MeleeSwingEvent:
			slog.Debug("melee swing", "hits", e.Hits)
		case component.PlayerDiedEvent:
			g.stats.deaths++
			g.dead = true
			g.respawnIn = g.cfg.Autopilot.RespawnDelay.Seconds()
			slog.Info("player died", "tick", g.ticks)
		case component.VictoryEvent:
			g.won = true
			slog.Info("victory", "level", e.Level, "tick", g.ticks)
		}
	}
}

// Run steps the game until it is done or ctx is cancelled. Changes from
// reloads are applied between ticks.
func (g *Game) Run(ctx context.Context, reloads <-chan prefabs.Change) error {
	pace := make(chan time.Time)
	close(pace)
	var ticker <-chan time.Time = pace
	if g.cfg.Realtime {
		t := time.NewTicker(time.Duration(float64(time.Second) * g.cfg.Step()))
		defer t.Stop()
		ticker = t.C
	}

	start := time.Now()
	for !g.Done() {
		select {
		case <-ctx.Done():
			g.report(time.Since(start))
			return ctx.Err()
		case change, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			g.Reload(change)
			continue
		case <-ticker:
		}
		if err := g.Update(); err != nil {
			return err
		}
	}
	g.report(time.Since(start))
	return nil
}

// Reload swaps in freshly loaded data. A failed load keeps the previous data.
func (g *Game) Reload(change prefabs.Change) {
	var err error
	switch change.Kind {
	case prefabs.ChangeTuning:
		var tuning *prefabs.Tuning
		if tuning, err = prefabs.LoadTuning(); err == nil {
			*g.tuning = *tuning
		}
	case prefabs.ChangeScript:
		var loot *system.LootRoller
		if loot, err = system.LoadLootRoller(); err == nil {
			g.defeat.SetLootRoller(loot)
		}
	case prefabs.ChangeCatalog:
		var catalog *levels.Catalog
		if catalog, err = levels.Load(g.cfg.Catalog); err == nil {
			g.levels.SetCatalog(catalog)
		}
	default:
		err = errors.New("unknown change kind")
	}
	if err != nil {
		slog.Warn("reload failed, keeping previous data", "path", change.Path, "kind", change.Kind, "err", err)
		return
	}
	slog.Info("reloaded", "path", change.Path, "kind", change.Kind)
}

func (g *Game) report(elapsed time.Duration) {
	slog.Info("run finished",
		"ticks", g.ticks,
		"elapsed", elapsed.Round(time.Millisecond),
		"victory", g.won,
		"levels", g.stats.levels,
		"kills", g.stats.kills,
		"bosses", g.stats.bossKills,
		"deaths", g.stats.deaths,
		"items", g.stats.items,
		"level_ups", g.stats.levelUps,
		"damage_taken", g.stats.damage,
	)
}

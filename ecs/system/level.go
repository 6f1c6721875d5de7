package system

import (
	"log/slog"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/milk9111/dungeoncrawler/levels"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// LevelSystem is the level orchestrator. A rebuild takes two ticks: the
// first tears down the old level and lays out the new grid, the second
// places and spawns its content. It also pays out boss rewards, sends the
// player through the exit portal and resets the roster on respawn.
type LevelSystem struct {
	catalog *levels.Catalog
	tuning  *prefabs.Tuning
	plan    *placement.Result
}

func NewLevelSystem(catalog *levels.Catalog, tuning *prefabs.Tuning) *LevelSystem {
	return &LevelSystem{catalog: catalog, tuning: tuning}
}

// SetCatalog swaps the catalog. Levels already built are unaffected.
func (s *LevelSystem) SetCatalog(catalog *levels.Catalog) {
	if catalog != nil {
		s.catalog = catalog
	}
}

// Plan returns the placement of the active level, nil until finalized.
func (s *LevelSystem) Plan() *placement.Result {
	return s.plan
}

func (s *LevelSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.catalog == nil || s.tuning == nil {
		return
	}
	stateEntity, state, ok := ecs.First(w, component.LevelStateComponent.Kind())
	if !ok {
		return
	}
	rt, ok := ecs.Get(w, stateEntity, component.LevelRuntimeComponent.Kind())
	if !ok {
		return
	}
	rewards, ok := ecs.Get(w, stateEntity, component.LevelRewardsComponent.Kind())
	if !ok {
		return
	}

	s.handleRequest(w, stateEntity, state)
	switch {
	case state.PendingFinalize != nil:
		s.finalize(w, state, rt)
	case state.PendingLayout != nil:
		s.layout(w, state, rt, rewards)
	}
	if !state.Loaded || state.Busy() {
		return
	}

	s.payBossRewards(w, rt, rewards)
	s.enterPortal(w, stateEntity, state)
	s.respawn(w, rt)
}

func (s *LevelSystem) handleRequest(w *ecs.World, holder ecs.Entity, state *component.LevelState) {
	req, ok := ecs.Get(w, holder, component.LevelAdvanceRequestComponent.Kind())
	if !ok {
		return
	}
	target := req.Target
	ecs.Remove(w, holder, component.LevelAdvanceRequestComponent.Kind())

	if state.Busy() {
		slog.Debug("level rebuild in flight; dropping request", "target", target)
		return
	}
	if _, ok := s.catalog.Get(target); !ok || target != state.Expected() {
		slog.Warn("ignoring invalid level request", "target", target, "expected", state.Expected())
		return
	}
	state.PendingLayout = &target
}

func (s *LevelSystem) layout(w *ecs.World, state *component.LevelState, rt *component.LevelRuntime, rewards *component.LevelRewards) {
	target := *state.PendingLayout
	state.PendingLayout = nil

	def, ok := s.catalog.Get(target)
	if !ok {
		slog.Warn("ignoring invalid level request", "target", target)
		return
	}
	rng := rand.New(rand.NewPCG(def.Seed, def.Seed))
	grid, err := layout.Generate(def.Layout, rng)
	if err != nil {
		slog.Error("level layout failed, keeping current level", "level", target, "current", state.Current, "err", err)
		return
	}
	removed := entity.DespawnLevel(w)
	s.plan = nil

	*rt = component.LevelRuntime{
		Index: target,
		Name:  def.Name,
		Final: s.catalog.IsFinal(target),
		Grid:  grid,
		Rng:   rng,
	}
	*rewards = component.LevelRewards{Target: target + 1}
	state.Current = target
	state.Loaded = false
	state.PendingFinalize = &target
	slog.Info("level laid out", "level", target, "name", def.Name, "tiles", grid.Len(), "despawned", removed)
}

func (s *LevelSystem) finalize(w *ecs.World, state *component.LevelState, rt *component.LevelRuntime) {
	target := *state.PendingFinalize
	state.PendingFinalize = nil
	state.Loaded = true

	def, ok := s.catalog.Get(target)
	if !ok || rt.Grid == nil {
		return
	}
	opts := placement.FromTuning(s.tuning, rt.Final, entity.SnapshotPlayer(w))
	res, err := placement.Plan(rt.Grid, def, opts)
	if err != nil {
		slog.Warn("level left unpopulated", "level", target, "err", err)
		return
	}
	if err := entity.SpawnPlan(w, res, s.tuning); err != nil {
		slog.Error("level spawn failed", "level", target, "err", err)
		return
	}

	s.plan = res
	rt.Spawn = res.Spawn
	rt.Exit = res.Exit
	rt.ExitAnchor = res.ExitAnchor
	rt.Populated = true

	if player, _, ok := entity.Player(w); ok {
		if tr, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			tr.SetPos(res.Spawn)
		}
		if st, ok := ecs.Get(w, player, component.StaminaComponent.Kind()); ok {
			st.Refill()
		}
	}

	w.Emit(component.LevelLoadedEvent{Index: target, Name: def.Name})
	slog.Info("level loaded", "level", target, "name", def.Name,
		"enemies", len(res.Enemies), "bosses", len(res.Bosses), "chests", len(res.Chests), "props", len(res.Props))
}

// payBossRewards opens the way on once every boss of the level is down: an
// exit portal (or victory on the final level) plus the boss loot chests.
func (s *LevelSystem) payBossRewards(w *ecs.World, rt *component.LevelRuntime, rewards *component.LevelRewards) {
	if rewards.Spawned || !rt.Populated {
		return
	}
	bossDown := false
	for _, ev := range ecs.EventsOf[component.EnemyDefeatedEvent](w.Events().Pending()) {
		if ev.Kind == component.EnemyBoss {
			bossDown = true
		}
	}
	if !bossDown || livingBosses(w) > 0 {
		return
	}
	rewards.Spawned = true

	if rt.Final {
		w.Emit(component.VictoryEvent{Level: rt.Index})
		slog.Info("final boss defeated", "level", rt.Index)
	} else if _, err := entity.NewExitPortal(w, rt.Exit, rewards.Target, s.tuning.Rewards.PortalRadius); err != nil {
		slog.Warn("exit portal spawn failed", "err", err)
	}

	loot := s.tuning.Rewards.BossLootFor(rt.Index)
	tile := rt.Grid.TileSize()
	spacing := s.tuning.Rewards.LootSpacing * tile
	first := -float64(len(loot)-1) / 2 * spacing
	slot := 0
	if s.plan != nil {
		slot = len(s.plan.Chests)
	}
	for i, spec := range loot {
		item, err := entity.ItemFromSpec(spec)
		if err != nil {
			slog.Warn("skipping boss loot", "kind", spec.Kind, "err", err)
			continue
		}
		pos := rt.ExitAnchor.Add(cp.Vector{
			X: first + float64(i)*spacing,
			Y: -s.tuning.Rewards.LootOffset * tile,
		})
		chest := placement.ChestSpawn{Slot: slot + i, Pos: pos, Tile: rt.Grid.GridPosOf(pos), Item: item}
		if _, err := entity.NewChest(w, chest, s.tuning.Player.ChestRevealSeconds); err != nil {
			slog.Warn("boss loot spawn failed", "item", item, "err", err)
		}
	}
}

func livingBosses(w *ecs.World) int {
	n := 0
	ecs.ForEach2(w, component.BossTagComponent.Kind(), component.HealthComponent.Kind(), func(e ecs.Entity, _ *component.BossTag, h *component.Health) {
		if !h.Dead() && !ecs.Has(w, e, component.DeathEffectComponent.Kind()) {
			n++
		}
	})
	return n
}

func (s *LevelSystem) enterPortal(w *ecs.World, holder ecs.Entity, state *component.LevelState) {
	player, pos, ok := entity.Player(w)
	if !ok || ecs.Has(w, player, component.PlayerDeadComponent.Kind()) {
		return
	}
	ecs.ForEach2(w, component.ExitPortalComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, portal *component.ExitPortal, tr *component.Transform) {
		if tr.Pos().Distance(pos) > portal.Radius || ecs.Has(w, holder, component.LevelAdvanceRequestComponent.Kind()) {
			return
		}
		if err := ecs.Add(w, holder, component.LevelAdvanceRequestComponent.Kind(), &component.LevelAdvanceRequest{Target: portal.Target}); err != nil {
			slog.Warn("portal request failed", "target", portal.Target, "err", err)
			return
		}
		slog.Info("player entered exit portal", "from", state.Current, "to", portal.Target)
	})
}

// respawn restores the player at the spawn point and resets the roster:
// projectiles vanish, every enemy returns to its origin at full health and a
// kind that was wiped out gets one replacement.
func (s *LevelSystem) respawn(w *ecs.World, rt *component.LevelRuntime) {
	player, _, ok := entity.Player(w)
	if !ok || !ecs.Has(w, player, component.PlayerRespawnRequestComponent.Kind()) {
		return
	}
	ecs.Remove(w, player, component.PlayerRespawnRequestComponent.Kind())

	entity.DespawnProjectiles(w)
	if tr, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		tr.SetPos(rt.Spawn)
	}
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok {
		h.Refill()
	}
	if st, ok := ecs.Get(w, player, component.StaminaComponent.Kind()); ok {
		st.Refill()
	}
	if p, ok := ecs.Get(w, player, component.PendingSwingsComponent.Kind()); ok {
		p.Count = 0
	}
	ecs.Remove(w, player, component.PoisonedComponent.Kind())
	ecs.Remove(w, player, component.PlayerDeadComponent.Kind())

	present := make(map[component.EnemyKind]int)
	for _, e := range ecs.Collect(w, component.EnemyComponent.Kind()) {
		enemy, _ := ecs.Get(w, e, component.EnemyComponent.Kind())
		present[enemy.Kind]++
		entity.ResetEnemy(w, e)
	}

	spawned := 0
	if s.plan != nil {
		for _, kind := range []component.EnemyKind{component.EnemySlime, component.EnemyCyclops, component.EnemySpider} {
			if present[kind] > 0 {
				continue
			}
			if s.respawnKind(w, kind) {
				spawned++
			}
		}
	}
	slog.Info("player respawned", "level", rt.Index, "enemies", len(ecs.Collect(w, component.EnemyComponent.Kind())), "replaced", spawned)
}

// respawnKind brings back one enemy of kind at its first planned position.
func (s *LevelSystem) respawnKind(w *ecs.World, kind component.EnemyKind) bool {
	for _, spawn := range s.plan.Enemies {
		if spawn.Kind != kind {
			continue
		}
		spec, err := s.tuning.Bestiary.Enemy(kind.String())
		if err != nil {
			slog.Warn("respawn tuning missing", "kind", kind, "err", err)
			return false
		}
		if _, err := entity.NewEnemy(w, spawn, spec); err != nil {
			slog.Warn("respawn failed", "kind", kind, "err", err)
			return false
		}
		return true
	}
	return false
}

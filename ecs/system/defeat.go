package system

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// LootRoller runs the loot table script. The script reads kind, roll and
// level and writes the dropped elixir name to drop, or "" for nothing.
type LootRoller struct {
	compiled *tengo.Compiled
}

func NewLootRoller(src []byte) (*LootRoller, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))
	for name, value := range map[string]any{"kind": "", "roll": 0.0, "level": 0, "drop": ""} {
		if err := script.Add(name, value); err != nil {
			return nil, fmt.Errorf("loot: add %s: %w", name, err)
		}
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("loot: compile: %w", err)
	}
	return &LootRoller{compiled: compiled}, nil
}

// LoadLootRoller compiles the loot script from prefabs.
func LoadLootRoller() (*LootRoller, error) {
	src, err := prefabs.LoadScript(prefabs.LootScript)
	if err != nil {
		return nil, fmt.Errorf("loot: load script: %w", err)
	}
	return NewLootRoller(src)
}

// Roll returns the item dropped by an enemy of kind, if any.
func (r *LootRoller) Roll(kind component.EnemyKind, roll float64, level int) (component.Item, bool, error) {
	if r == nil || r.compiled == nil {
		return component.Item{}, false, nil
	}
	if err := r.compiled.Set("kind", kind.String()); err != nil {
		return component.Item{}, false, err
	}
	if err := r.compiled.Set("roll", roll); err != nil {
		return component.Item{}, false, err
	}
	if err := r.compiled.Set("level", level); err != nil {
		return component.Item{}, false, err
	}
	if err := r.compiled.Run(); err != nil {
		return component.Item{}, false, fmt.Errorf("loot: run: %w", err)
	}
	name := r.compiled.Get("drop").String()
	if name == "" {
		return component.Item{}, false, nil
	}
	itemKind, err := component.ParseItemKind(name)
	if err != nil {
		return component.Item{}, false, err
	}
	return component.Item{Kind: itemKind}, true, nil
}

// DefeatSystem retires enemies whose health ran out: it reports the defeat,
// drops loot, and fades the body out before removing it.
type DefeatSystem struct {
	tuning *prefabs.Tuning
	loot   *LootRoller
	rng    *rand.Rand
}

func NewDefeatSystem(tuning *prefabs.Tuning, loot *LootRoller) *DefeatSystem {
	return &DefeatSystem{tuning: tuning, loot: loot, rng: rand.New(rand.NewPCG(1, 1))}
}

// SetLootRoller swaps in a recompiled loot script.
func (s *DefeatSystem) SetLootRoller(loot *LootRoller) {
	s.loot = loot
}

func (s *DefeatSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.DeathEffectComponent.Kind(), func(e ecs.Entity, fx *component.DeathEffect) {
		fx.Fade.Tick(dt)
		fx.Alpha = 1 - fx.Fade.Fraction()
		if fx.Fade.Finished() {
			ecs.DestroyEntity(w, e)
		}
	})

	fade := 0.6
	if s.tuning != nil && s.tuning.Bestiary.DeathFade > 0 {
		fade = s.tuning.Bestiary.DeathFade
	}
	for _, e := range ecs.Collect(w, component.EnemyComponent.Kind()) {
		if ecs.Has(w, e, component.DeathEffectComponent.Kind()) {
			continue
		}
		health, ok := ecs.Get(w, e, component.HealthComponent.Kind())
		if !ok || !health.Dead() {
			continue
		}
		enemy, _ := ecs.Get(w, e, component.EnemyComponent.Kind())
		w.Emit(component.EnemyDefeatedEvent{XP: enemy.XP, Name: enemy.Name, Kind: enemy.Kind})
		s.dropLoot(w, e, enemy.Kind)

		fx := component.NewDeathEffect(fade)
		if err := ecs.Add(w, e, component.DeathEffectComponent.Kind(), &fx); err != nil {
			ecs.DestroyEntity(w, e)
		}
	}
}

func (s *DefeatSystem) dropLoot(w *ecs.World, e ecs.Entity, kind component.EnemyKind) {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	rng, level := s.rng, 0
	if rt, ok := entity.LevelRuntime(w); ok {
		level = rt.Index
		if rt.Rng != nil {
			rng = rt.Rng
		}
	}

	var (
		item    component.Item
		dropped bool
	)
	if kind == component.EnemySpider {
		item, dropped = component.Item{Kind: component.ItemCurePoison}, true
	} else {
		var err error
		item, dropped, err = s.loot.Roll(kind, rng.Float64(), level)
		if err != nil {
			slog.Warn("loot roll failed", "kind", kind, "err", err)
			return
		}
	}
	if !dropped {
		return
	}

	radius := 40.0
	if s.tuning != nil && s.tuning.Rewards.PickupRadius > 0 {
		radius = s.tuning.Rewards.PickupRadius
	}
	if _, err := entity.NewPickup(w, tr.Pos(), item, radius); err != nil {
		slog.Warn("loot spawn failed", "item", item, "err", err)
	}
}

// PlayerDeathSystem marks the player dead once its health runs out.
type PlayerDeathSystem struct{}

func NewPlayerDeathSystem() *PlayerDeathSystem {
	return &PlayerDeathSystem{}
}

func (s *PlayerDeathSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	e, _, ok := entity.Player(w)
	if !ok || ecs.Has(w, e, component.PlayerDeadComponent.Kind()) {
		return
	}
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || !h.Dead() {
		return
	}
	if err := ecs.Add(w, e, component.PlayerDeadComponent.Kind(), &component.PlayerDead{}); err != nil {
		slog.Warn("mark player dead failed", "err", err)
		return
	}
	w.Emit(component.PlayerDiedEvent{})
}

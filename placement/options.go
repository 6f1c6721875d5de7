package placement

import (
	"log/slog"

	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// PlayerSnapshot is the player's combat profile at the moment a level is
// finalized. Boss stats are scaled from it.
type PlayerSnapshot struct {
	Attack    int
	Defense   int
	MaxHealth int
}

// Options carries the tuning numbers placement reads. The zero value is not
// useful; start from DefaultOptions or FromTuning.
type Options struct {
	ChestCount int
	Elixirs    []component.ItemKind

	SlimePatrolRange   float64
	CyclopsPatrolRange float64
	SpiderPatrolRange  float64

	// Boss n spawns BossOffset + n*BossSpacing tiles south of the exit.
	BossOffset  float64
	BossSpacing float64
	BossScale   float64
	// FinalBossScale replaces BossScale on the last level of the catalog.
	FinalBossScale float64
	Final          bool
	Player         PlayerSnapshot
}

func DefaultOptions() Options {
	return Options{
		ChestCount:         3,
		Elixirs:            []component.ItemKind{component.ItemHeal, component.ItemRestoreStamina, component.ItemCurePoison},
		SlimePatrolRange:   120,
		CyclopsPatrolRange: 140,
		SpiderPatrolRange:  256,
		BossOffset:         1.2,
		BossSpacing:        0.6,
		BossScale:          1.1,
		FinalBossScale:     1.3,
		Player:             PlayerSnapshot{Attack: 10, Defense: 3, MaxHealth: 100},
	}
}

// FromTuning builds Options from loaded prefab tuning.
func FromTuning(t *prefabs.Tuning, final bool, player PlayerSnapshot) Options {
	opts := DefaultOptions()
	opts.Final = final
	opts.Player = player
	if t == nil {
		return opts
	}

	if t.Rewards.ChestCount > 0 {
		opts.ChestCount = t.Rewards.ChestCount
	}
	if len(t.Rewards.ChestElixirs) > 0 {
		opts.Elixirs = opts.Elixirs[:0:0]
		for _, name := range t.Rewards.ChestElixirs {
			kind, err := component.ParseItemKind(name)
			if err != nil || !kind.Elixir() {
				slog.Warn("placement: skipping chest elixir", "name", name, "err", err)
				continue
			}
			opts.Elixirs = append(opts.Elixirs, kind)
		}
	}

	if spec, ok := t.Bestiary.Enemies[component.EnemySlime.String()]; ok {
		opts.SlimePatrolRange = spec.PatrolRange
	}
	if spec, ok := t.Bestiary.Enemies[component.EnemyCyclops.String()]; ok {
		opts.CyclopsPatrolRange = spec.PatrolRange
	}
	if t.Bestiary.SpiderPatrolMax > 0 {
		opts.SpiderPatrolRange = t.Bestiary.SpiderPatrolMax
	}
	if t.Bestiary.BossOffset > 0 {
		opts.BossOffset = t.Bestiary.BossOffset
	}
	if t.Bestiary.BossSpacing > 0 {
		opts.BossSpacing = t.Bestiary.BossSpacing
	}
	if t.Bestiary.BossScale > 0 {
		opts.BossScale = t.Bestiary.BossScale
	}
	if t.Bestiary.FinalBossScale > 0 {
		opts.FinalBossScale = t.Bestiary.FinalBossScale
	}
	return opts
}

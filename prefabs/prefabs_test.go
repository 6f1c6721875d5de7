package prefabs

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTuning(t *testing.T) {
	tuning, err := LoadTuning()
	require.NoError(t, err)

	slime, err := tuning.Bestiary.Enemy("slime")
	require.NoError(t, err)
	assert.Equal(t, 8, slime.Attack)
	assert.Nil(t, slime.Ranged)

	cyclops, err := tuning.Bestiary.Enemy("cyclops")
	require.NoError(t, err)
	require.NotNil(t, cyclops.Charge)
	assert.InDelta(t, 2.2, cyclops.Charge.Multiplier, 1e-9)

	spider, err := tuning.Bestiary.Enemy("spider")
	require.NoError(t, err)
	require.NotNil(t, spider.Ranged)
	assert.Equal(t, 2, spider.Ranged.PoisonDamage)

	boss, err := tuning.Bestiary.Enemy("boss")
	require.NoError(t, err)
	require.NotNil(t, boss.Ranged)
	assert.Greater(t, boss.Ranged.Radius, boss.Ranged.CastMinDistance)

	_, err = tuning.Bestiary.Enemy("dragon")
	assert.ErrorIs(t, err, ErrMissingEnemy)

	assert.Equal(t, 100, tuning.Player.Health)
	assert.Equal(t, 5, tuning.Player.Progression.MaxLevel())
	assert.Len(t, tuning.Player.Progression.Attack, 5)
	assert.Len(t, tuning.Player.Progression.Defense, 5)
	assert.Equal(t, 3, tuning.Rewards.ChestCount)
}

func TestBonusTablesClamp(t *testing.T) {
	p := PlayerSpec{WeaponBonus: []int{0, 0, 2, 4}, ShieldBonus: []int{0, 1}}

	tests := []struct {
		name   string
		level  int
		weapon int
		shield int
	}{
		{"negative", -1, 0, 0},
		{"zero", 0, 0, 0},
		{"inside", 2, 2, 1},
		{"past_end", 9, 4, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.weapon, p.WeaponBonusFor(tc.level))
			assert.Equal(t, tc.shield, p.ShieldBonusFor(tc.level))
		})
	}
	assert.Zero(t, PlayerSpec{}.WeaponBonusFor(3))
}

func TestBossLootFor(t *testing.T) {
	r, err := LoadSpec[RewardSpec](RewardsFile)
	require.NoError(t, err)

	first := r.BossLootFor(0)
	require.Len(t, first, 2)
	assert.Equal(t, ItemSpec{Kind: "shield", Level: 1}, first[0])
	assert.Equal(t, []ItemSpec{{Kind: "weapon", Level: 3}}, r.BossLootFor(1))
	assert.Equal(t, r.BossLootFor(3), r.BossLootFor(12))
	assert.Nil(t, RewardSpec{}.BossLootFor(0))
}

func TestLoadSpecMissingFile(t *testing.T) {
	_, err := LoadSpec[Bestiary]("nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load nope.yaml")
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{LootScript, "scripts/" + LootScript, "prefabs/scripts/" + LootScript} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "drop")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want Change
		ok   bool
	}{
		{"tuning", fsnotify.Event{Name: "prefabs/enemies.yaml", Op: fsnotify.Write}, Change{"prefabs/enemies.yaml", ChangeTuning}, true},
		{"script", fsnotify.Event{Name: "prefabs/scripts/loot.tengo", Op: fsnotify.Create}, Change{"prefabs/scripts/loot.tengo", ChangeScript}, true},
		{"catalog", fsnotify.Event{Name: "levels/catalog.yaml", Op: fsnotify.Write}, Change{"levels/catalog.yaml", ChangeCatalog}, true},
		{"chmod_ignored", fsnotify.Event{Name: "prefabs/enemies.yaml", Op: fsnotify.Chmod}, Change{}, false},
		{"other_ext", fsnotify.Event{Name: "prefabs/notes.txt", Op: fsnotify.Write}, Change{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := classify(tc.ev)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

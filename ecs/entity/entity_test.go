package entity

import (
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/milk9111/dungeoncrawler/levels"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/milk9111/dungeoncrawler/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTuning(t *testing.T) *prefabs.Tuning {
	t.Helper()
	tuning, err := prefabs.LoadTuning()
	require.NoError(t, err)
	return tuning
}

func TestNewPlayerStats(t *testing.T) {
	tuning := loadTuning(t)
	w := ecs.NewWorld()

	e, err := NewPlayer(w, tuning.Player, cp.Vector{X: 10, Y: 20})
	require.NoError(t, err)

	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, tuning.Player.Health, h.Current)

	a, _ := ecs.Get(w, e, component.AttackComponent.Kind())
	d, _ := ecs.Get(w, e, component.DefenseComponent.Kind())
	assert.Equal(t, tuning.Player.Progression.Attack[0], a.Value())
	assert.Equal(t, tuning.Player.Progression.Defense[0], d.Value())

	eq, _ := ecs.Get(w, e, component.EquipmentComponent.Kind())
	eq.WeaponLevel = 3
	eq.ShieldLevel = 1
	prog, _ := ecs.Get(w, e, component.ProgressionComponent.Kind())
	prog.Level = 2
	a.Bonus = 99
	a.Multiplier = 0.5
	d.Multiplier = 3
	RefreshPlayerStats(w, e, tuning.Player)
	assert.Equal(t, tuning.Player.Progression.Attack[1]+tuning.Player.WeaponBonus[3], a.Value())
	assert.Equal(t, tuning.Player.Progression.Defense[1]+tuning.Player.ShieldBonus[1], d.Value())

	_, pos, ok := Player(w)
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, pos)

	snap := SnapshotPlayer(w)
	assert.Equal(t, a.Value(), snap.Attack)
	assert.Equal(t, tuning.Player.Health, snap.MaxHealth)
}

func TestNewEnemyKinds(t *testing.T) {
	tuning := loadTuning(t)
	w := ecs.NewWorld()

	for _, kind := range []component.EnemyKind{component.EnemySlime, component.EnemyCyclops, component.EnemySpider} {
		spec, err := tuning.Bestiary.Enemy(kind.String())
		require.NoError(t, err)
		e, err := NewEnemy(w, placement.EnemySpawn{
			Kind:   kind,
			Serial: 1,
			Pos:    cp.Vector{X: 100},
			Patrol: component.Patrol{Origin: cp.Vector{X: 100}, Range: 50, Direction: -1},
		}, spec)
		require.NoError(t, err)

		b, ok := ecs.Get(w, e, component.BehaviorComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, component.StatePatrolling, b.State)
		assert.True(t, ecs.Has(w, e, component.LevelScopedComponent.Kind()))
		assert.Equal(t, kind == component.EnemyCyclops, ecs.Has(w, e, component.ChargeComponent.Kind()))
		assert.Equal(t, kind == component.EnemySpider, ecs.Has(w, e, component.WebShooterComponent.Kind()))
		assert.Equal(t, kind != component.EnemySpider, ecs.Has(w, e, component.ContactAttackComponent.Kind()))
	}
}

func TestNewBossUsesScaledStats(t *testing.T) {
	tuning := loadTuning(t)
	w := ecs.NewWorld()
	spec, err := tuning.Bestiary.Enemy("boss")
	require.NoError(t, err)

	e, err := NewBoss(w, placement.BossSpawn{Serial: 1, Pos: cp.Vector{Y: 200}, Health: 130, Attack: 19, Defense: 7}, spec)
	require.NoError(t, err)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	a, _ := ecs.Get(w, e, component.AttackComponent.Kind())
	d, _ := ecs.Get(w, e, component.DefenseComponent.Kind())
	assert.Equal(t, 130, h.Max)
	assert.Equal(t, 19, a.Value())
	assert.Equal(t, 7, d.Value())
	assert.True(t, ecs.Has(w, e, component.BossTagComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.CasterComponent.Kind()))
	assert.False(t, ecs.Has(w, e, component.ContactAttackComponent.Kind()))
}

func TestSpawnPlanAndDespawn(t *testing.T) {
	tuning := loadTuning(t)
	catalog, err := levels.Default()
	require.NoError(t, err)
	def, ok := catalog.Get(0)
	require.True(t, ok)

	grid, err := layout.Generate(def.Layout, rand.New(rand.NewPCG(def.Seed, def.Seed)))
	require.NoError(t, err)
	res, err := placement.Plan(grid, def, placement.FromTuning(tuning, false, placement.DefaultOptions().Player))
	require.NoError(t, err)

	w := ecs.NewWorld()
	_, err = NewPlayer(w, tuning.Player, res.Spawn)
	require.NoError(t, err)
	require.NoError(t, SpawnPlan(w, res, tuning))

	assert.Equal(t, len(res.Enemies)+len(res.Bosses), ecs.Count(w, component.EnemyComponent.Kind()))
	assert.Equal(t, len(res.Chests), ecs.Count(w, component.ChestComponent.Kind()))
	assert.Equal(t, len(res.Props), ecs.Count(w, component.PropComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(w, component.DoorComponent.Kind()))

	ecs.ForEach(w, component.PropComponent.Kind(), func(_ ecs.Entity, p *component.Prop) {
		assert.Equal(t, p.Kind != component.PropCrate, p.Blocks)
	})

	want := ecs.Count(w, component.LevelScopedComponent.Kind())
	assert.Equal(t, want, DespawnLevel(w))
	assert.Zero(t, ecs.Count(w, component.EnemyComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(w, component.PlayerTagComponent.Kind()))
}

func TestAwakenMimic(t *testing.T) {
	tuning := loadTuning(t)
	w := ecs.NewWorld()
	chest, err := NewChest(w, placement.ChestSpawn{Mimic: true, Pos: cp.Vector{X: 64, Y: 128}}, 0.6)
	require.NoError(t, err)

	spec, err := tuning.Bestiary.Enemy("mimic")
	require.NoError(t, err)
	spec.PatrolSpeed = 0
	require.NoError(t, AwakenMimic(w, chest, spec))

	enemy, ok := ecs.Get(w, chest, component.EnemyComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.EnemyMimic, enemy.Kind)
	b, _ := ecs.Get(w, chest, component.BehaviorComponent.Kind())
	assert.Equal(t, component.StateChasing, b.State)
	p, _ := ecs.Get(w, chest, component.PatrolComponent.Kind())
	assert.Equal(t, cp.Vector{X: 64, Y: 128}, p.Origin)
}

func TestResetEnemy(t *testing.T) {
	tuning := loadTuning(t)
	w := ecs.NewWorld()
	spec, _ := tuning.Bestiary.Enemy("cyclops")
	e, err := NewEnemy(w, placement.EnemySpawn{
		Kind:   component.EnemyCyclops,
		Pos:    cp.Vector{X: 10},
		Patrol: component.Patrol{Origin: cp.Vector{X: 10}, Range: 40, Direction: -1},
	}, spec)
	require.NoError(t, err)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	h.Damage(5)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.SetPos(cp.Vector{X: 40, Y: 9})
	b, _ := ecs.Get(w, e, component.BehaviorComponent.Kind())
	b.State = component.StateCharging
	c, _ := ecs.Get(w, e, component.ChargeComponent.Kind())
	c.Ready = false
	p, _ := ecs.Get(w, e, component.PatrolComponent.Kind())
	p.Direction = -0.4
	death := component.NewDeathEffect(0.6)
	require.NoError(t, ecs.Add(w, e, component.DeathEffectComponent.Kind(), &death))

	ResetEnemy(w, e)

	assert.Equal(t, h.Max, h.Current)
	assert.Equal(t, cp.Vector{X: 10}, tr.Pos())
	assert.Equal(t, component.StatePatrolling, b.State)
	assert.True(t, c.Ready)
	assert.Equal(t, -1.0, p.Direction)
	assert.False(t, ecs.Has(w, e, component.DeathEffectComponent.Kind()))
}

func TestItemFromSpec(t *testing.T) {
	item, err := ItemFromSpec(prefabs.ItemSpec{Kind: "weapon", Level: 2})
	require.NoError(t, err)
	assert.Equal(t, component.Item{Kind: component.ItemWeapon, Level: 2}, item)

	_, err = ItemFromSpec(prefabs.ItemSpec{Kind: "wand"})
	assert.Error(t, err)
}

package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	EnemiesFile = "enemies.yaml"
	PlayerFile  = "player.yaml"
	RewardsFile = "rewards.yaml"
	LootScript  = "loot.tengo"
)

var ErrMissingEnemy = errors.New("prefabs: enemy tuning missing")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// RangedSpec tunes a projectile attack. Spiders fire webs, the boss fires
// bolts; unused fields stay zero.
type RangedSpec struct {
	Cooldown        float64 `yaml:"cooldown"`
	MinDistance     float64 `yaml:"min_distance"`
	CastMinDistance float64 `yaml:"cast_min_distance"`
	Radius          float64 `yaml:"radius"`
	Speed           float64 `yaml:"speed"`
	Lifetime        float64 `yaml:"lifetime"`
	HalfLength      float64 `yaml:"half_length"`
	HitRadius       float64 `yaml:"hit_radius"`
	SpawnOffset     float64 `yaml:"spawn_offset"`
	PoisonSeconds   float64 `yaml:"poison_seconds"`
	PoisonDamage    int     `yaml:"poison_damage"`
}

type ChargeSpec struct {
	Windup     float64 `yaml:"windup"`
	Duration   float64 `yaml:"duration"`
	Cooldown   float64 `yaml:"cooldown"`
	Multiplier float64 `yaml:"multiplier"`
}

type EnemySpec struct {
	Name           string      `yaml:"name"`
	XP             int         `yaml:"xp"`
	Health         int         `yaml:"health"`
	Attack         int         `yaml:"attack"`
	Defense        int         `yaml:"defense"`
	PatrolRange    float64     `yaml:"patrol_range"`
	PatrolSpeed    float64     `yaml:"patrol_speed"`
	ChaseSpeed     float64     `yaml:"chase_speed"`
	AlertRadius    float64     `yaml:"alert_radius"`
	LeashRadius    float64     `yaml:"leash_radius"`
	AttackRadius   float64     `yaml:"attack_radius"`
	AttackCooldown float64     `yaml:"attack_cooldown"`
	Charge         *ChargeSpec `yaml:"charge,omitempty"`
	Ranged         *RangedSpec `yaml:"ranged,omitempty"`
}

// Bestiary is enemies.yaml keyed by enemy kind name.
type Bestiary struct {
	Enemies         map[string]EnemySpec `yaml:"enemies"`
	DeathFade       float64              `yaml:"death_fade_seconds"`
	BossScale       float64              `yaml:"boss_scale"`
	FinalBossScale  float64              `yaml:"final_boss_scale"`
	BossSpacing     float64              `yaml:"boss_spacing_tiles"`
	BossOffset      float64              `yaml:"boss_offset_tiles"`
	SpiderPatrolMax float64              `yaml:"spider_patrol_range"`
}

func (b Bestiary) Enemy(kind string) (EnemySpec, error) {
	spec, ok := b.Enemies[kind]
	if !ok {
		return EnemySpec{}, fmt.Errorf("%w: %s", ErrMissingEnemy, kind)
	}
	return spec, nil
}

type ProgressionSpec struct {
	// XPToNext[i] is the experience needed to go from level i+1 to i+2.
	XPToNext []int `yaml:"xp_to_next"`
	Attack   []int `yaml:"attack"`
	Defense  []int `yaml:"defense"`
}

// MaxLevel is the highest reachable player level.
func (p ProgressionSpec) MaxLevel() int {
	return len(p.XPToNext) + 1
}

type PlayerSpec struct {
	Health             int             `yaml:"health"`
	Speed              float64         `yaml:"speed"`
	Radius             float64         `yaml:"radius"`
	StaminaMax         float64         `yaml:"stamina_max"`
	StaminaRegen       float64         `yaml:"stamina_regen"`
	AttackStaminaCost  float64         `yaml:"attack_stamina_cost"`
	SwingSeconds       float64         `yaml:"swing_seconds"`
	AttackRadius       float64         `yaml:"attack_radius"`
	ReticleDistance    float64         `yaml:"reticle_distance"`
	FacingCosThreshold float64         `yaml:"facing_cos_threshold"`
	PickupRadius       float64         `yaml:"pickup_radius"`
	InteractRadius     float64         `yaml:"interact_radius"`
	ChestRevealSeconds float64         `yaml:"chest_reveal_seconds"`
	HealAmount         int             `yaml:"heal_amount"`
	WeaponBonus        []int           `yaml:"weapon_bonus"`
	ShieldBonus        []int           `yaml:"shield_bonus"`
	Progression        ProgressionSpec `yaml:"progression"`
}

// WeaponBonusFor clamps level into the bonus table.
func (p PlayerSpec) WeaponBonusFor(level int) int {
	return tableAt(p.WeaponBonus, level)
}

func (p PlayerSpec) ShieldBonusFor(level int) int {
	return tableAt(p.ShieldBonus, level)
}

func tableAt(table []int, i int) int {
	if len(table) == 0 {
		return 0
	}
	return table[max(0, min(i, len(table)-1))]
}

// ItemSpec is an item as written in tuning files: kind name plus level.
type ItemSpec struct {
	Kind  string `yaml:"kind"`
	Level int    `yaml:"level,omitempty"`
}

type RewardSpec struct {
	// BossLoot[i] is dropped when level i's boss dies; the last entry is
	// used for every level past the table.
	BossLoot      [][]ItemSpec `yaml:"boss_loot"`
	LootSpacing   float64      `yaml:"loot_spacing_tiles"`
	LootOffset    float64      `yaml:"loot_offset_tiles"`
	ChestCount    int          `yaml:"chest_count"`
	ChestElixirs  []string     `yaml:"chest_elixirs"`
	PickupRadius  float64      `yaml:"pickup_radius"`
	PortalRadius  float64      `yaml:"portal_radius"`
	PropRadius    float64      `yaml:"prop_radius"`
	BlockingProps []string     `yaml:"blocking_props"`
}

func (r RewardSpec) BossLootFor(level int) []ItemSpec {
	if len(r.BossLoot) == 0 {
		return nil
	}
	return r.BossLoot[max(0, min(level, len(r.BossLoot)-1))]
}

// Tuning is every data-driven number the simulation reads.
type Tuning struct {
	Bestiary Bestiary
	Player   PlayerSpec
	Rewards  RewardSpec
}

// LoadTuning reads enemies, player and reward tuning.
func LoadTuning() (*Tuning, error) {
	bestiary, err := LoadSpec[Bestiary](EnemiesFile)
	if err != nil {
		return nil, err
	}
	player, err := LoadSpec[PlayerSpec](PlayerFile)
	if err != nil {
		return nil, err
	}
	rewards, err := LoadSpec[RewardSpec](RewardsFile)
	if err != nil {
		return nil, err
	}
	for _, kind := range []string{"slime", "cyclops", "spider", "mimic", "boss"} {
		if _, err := bestiary.Enemy(kind); err != nil {
			return nil, fmt.Errorf("prefabs: load %s: %w", EnemiesFile, err)
		}
	}
	return &Tuning{Bestiary: bestiary, Player: player, Rewards: rewards}, nil
}

package component

// Events raised for collaborators. Each is an immutable record drained once
// per tick by the game loop.

type LevelLoadedEvent struct {
	Index int
	Name  string
}

type EnemyDefeatedEvent struct {
	XP   int
	Name string
	Kind EnemyKind
}

type PlayerDamagedEvent struct {
	Damage    int
	Remaining int
}

type DoorStateChangedEvent struct {
	Open bool
}

type PlayerLevelUpEvent struct {
	Level   int
	Attack  int
	Defense int
}

type ItemCollectedEvent struct {
	Item Item
}

type ChestOpenedEvent struct {
	Slot  int
	Mimic bool
	Item  Item
}

type SpellCastEvent struct {
	Caster string
}

type MeleeSwingEvent struct {
	Hits int
}

type PlayerDiedEvent struct{}

// VictoryEvent is raised when the final level's boss falls.
type VictoryEvent struct {
	Level int
}

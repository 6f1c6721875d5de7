package component

type ChestState int

const (
	ChestClosed ChestState = iota
	ChestRevealing
	ChestOpened
	ChestMimicAwakened
)

// Chest holds concealed content. A mimic chest turns into an enemy when
// opened instead of revealing an item.
type Chest struct {
	Mimic  bool
	Item   Item
	State  ChestState
	Reveal Timer
	Slot   int
}

var ChestComponent = NewComponent[Chest]()

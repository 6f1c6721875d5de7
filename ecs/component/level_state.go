package component

import (
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/layout"
)

// LevelState is the orchestrator's pipeline state. At most one of the pending
// slots is set at a time; while either is set new advance requests are dropped.
type LevelState struct {
	Current         int
	Loaded          bool
	PendingLayout   *int
	PendingFinalize *int
}

// Busy reports whether a rebuild is in flight.
func (s LevelState) Busy() bool {
	return s.PendingLayout != nil || s.PendingFinalize != nil
}

// Expected is the only index an advance request may target.
func (s LevelState) Expected() int {
	if !s.Loaded {
		return s.Current
	}
	return s.Current + 1
}

// LevelRuntime is the per-level shared context: the tile grid, the seeded
// random source and the placement anchors. It is replaced on every layout.
type LevelRuntime struct {
	Index      int
	Name       string
	Final      bool
	Grid       *layout.Grid
	Rng        *rand.Rand
	Spawn      cp.Vector
	Exit       cp.Vector
	ExitAnchor cp.Vector
	Populated  bool
}

// LevelRewards tracks the boss-defeat payout for the active level.
type LevelRewards struct {
	Spawned bool
	Target  int
}

var LevelStateComponent = NewComponent[LevelState]()
var LevelRuntimeComponent = NewComponent[LevelRuntime]()
var LevelRewardsComponent = NewComponent[LevelRewards]()

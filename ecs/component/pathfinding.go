package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/layout"
)

// Route is a walk through the tile grid toward Goal. Waypoints are tile
// centres in world space, nearest first.
type Route struct {
	Goal        layout.GridPos
	HasGoal     bool
	Waypoints   []cp.Vector
	RepathTicks int
	Counter     int
}

// Autopilot drives the player's input from the world state when no host
// input is attached.
type Autopilot struct {
	EngageRange float64
}

var RouteComponent = NewComponent[Route]()
var AutopilotComponent = NewComponent[Autopilot]()

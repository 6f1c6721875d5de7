package component

import "github.com/milk9111/dungeoncrawler/layout"

// Door is the entrance door of the active level.
type Door struct {
	Tile layout.GridPos
	Open bool
}

// ExitPortal leads to Target once the boss is down.
type ExitPortal struct {
	Target int
	Radius float64
}

var DoorComponent = NewComponent[Door]()
var ExitPortalComponent = NewComponent[ExitPortal]()

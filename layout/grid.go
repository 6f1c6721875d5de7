package layout

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/jakecoffman/cp"
)

const (
	RoomTileSize = 16.0
	SpriteScale  = 4.0
	// TileSize is the world size of one tile in pixels.
	TileSize = RoomTileSize * SpriteScale
)

// Grid is the sparse tile map of one level. Exactly one tile occupies each
// coordinate; overlapping stamps are resolved by Stamp.
type Grid struct {
	tiles    map[GridPos]Tile
	tileSize float64
}

func NewGrid() *Grid {
	return &Grid{tiles: make(map[GridPos]Tile), tileSize: TileSize}
}

func (g *Grid) TileSize() float64 {
	return g.tileSize
}

// Stamp writes t unless a stronger tile already holds the coordinate.
// Corridor tiles always win; otherwise the higher collision priority wins and
// ties keep the earlier tile.
func (g *Grid) Stamp(t Tile) {
	cur, ok := g.tiles[t.Pos]
	switch {
	case !ok, t.Corridor:
	case cur.Corridor:
		return
	case t.Kind.CollisionPriority() <= cur.Kind.CollisionPriority():
		return
	}
	g.tiles[t.Pos] = t
}

func (g *Grid) At(p GridPos) (Tile, bool) {
	t, ok := g.tiles[p]
	return t, ok
}

func (g *Grid) Len() int {
	return len(g.tiles)
}

// Tiles returns every tile ordered south to north, then west to east.
func (g *Grid) Tiles() []Tile {
	out := make([]Tile, 0, len(g.tiles))
	for _, t := range g.tiles {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Tile) int {
		if c := cmp.Compare(a.Pos.Y, b.Pos.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Pos.X, b.Pos.X)
	})
	return out
}

// Floors returns the indoor floor tiles in Tiles order, corridors included.
func (g *Grid) Floors() []Tile {
	var out []Tile
	for _, t := range g.Tiles() {
		if t.Kind == Floor {
			out = append(out, t)
		}
	}
	return out
}

func (g *Grid) IsFloor(p GridPos) bool {
	t, ok := g.tiles[p]
	return ok && t.Kind == Floor
}

func (g *Grid) IsCorridor(p GridPos) bool {
	t, ok := g.tiles[p]
	return ok && t.Corridor
}

// Blocking reports whether the tile at p stops movement. Empty cells do not.
func (g *Grid) Blocking(p GridPos) bool {
	t, ok := g.tiles[p]
	return ok && t.Kind.Blocks()
}

// Door returns the entrance: the door tile with the lowest row.
func (g *Grid) Door() (GridPos, bool) {
	var (
		best  GridPos
		found bool
	)
	for p, t := range g.tiles {
		if !t.Kind.IsDoor() {
			continue
		}
		if !found || p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best, found = p, true
		}
	}
	return best, found
}

// SetDoorOpen flips the entrance door and reports whether anything changed.
func (g *Grid) SetDoorOpen(open bool) bool {
	p, ok := g.Door()
	if !ok {
		return false
	}
	t := g.tiles[p]
	want := DoorClosed
	if open {
		want = DoorOpen
	}
	if t.Kind == want {
		return false
	}
	t.Kind = want
	g.tiles[p] = t
	return true
}

// Bounds returns the inclusive min and max coordinates.
func (g *Grid) Bounds() (GridPos, GridPos) {
	first := true
	var lo, hi GridPos
	for p := range g.tiles {
		if first {
			lo, hi, first = p, p, false
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

func (g *Grid) WorldPos(p GridPos) cp.Vector {
	return cp.Vector{X: float64(p.X) * g.tileSize, Y: float64(p.Y) * g.tileSize}
}

// GridPosOf rounds a world position to the nearest tile coordinate.
func (g *Grid) GridPosOf(v cp.Vector) GridPos {
	return GridPos{X: int(math.Round(v.X / g.tileSize)), Y: int(math.Round(v.Y / g.tileSize))}
}

// ProjectilePriorityAt is the occlusion priority of the tile under a world
// position. Empty cells count as open floor.
func (g *Grid) ProjectilePriorityAt(v cp.Vector) int {
	t, ok := g.tiles[g.GridPosOf(v)]
	if !ok {
		return 0
	}
	return t.Kind.ProjectilePriority()
}

// String renders the grid north-up. Corridor floor is drawn as ':'.
func (g *Grid) String() string {
	if len(g.tiles) == 0 {
		return ""
	}
	lo, hi := g.Bounds()
	var b strings.Builder
	for y := hi.Y; y >= lo.Y; y-- {
		for x := lo.X; x <= hi.X; x++ {
			t, ok := g.tiles[GridPos{X: x, Y: y}]
			switch {
			case !ok:
				b.WriteByte(' ')
			case t.Corridor:
				b.WriteByte(':')
			default:
				b.WriteByte(t.Kind.glyph())
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

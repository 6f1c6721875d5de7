package layout

import (
	"fmt"
	"strings"
)

// TileKind classifies one grid cell.
type TileKind int

const (
	Floor TileKind = iota
	FloorOutdoor
	WallNInnerCornerW
	WallNInnerMid
	WallNInnerCornerE
	WallSInnerCapL
	WallSInnerMid
	WallSInnerCapR
	WallSOuterCapL
	WallSOuterMid
	WallSOuterCapR
	WallESide
	WallWSide
	DoorClosed
	DoorOpen
)

var tileKindNames = [...]string{
	"floor", "floor_outdoor",
	"wall_n_inner_corner_w", "wall_n_inner_mid", "wall_n_inner_corner_e",
	"wall_s_inner_cap_l", "wall_s_inner_mid", "wall_s_inner_cap_r",
	"wall_s_outer_cap_l", "wall_s_outer_mid", "wall_s_outer_cap_r",
	"wall_e_side", "wall_w_side",
	"door_closed", "door_open",
}

func (k TileKind) String() string {
	if k < 0 || int(k) >= len(tileKindNames) {
		return fmt.Sprintf("TileKind(%d)", int(k))
	}
	return tileKindNames[k]
}

func (k TileKind) IsWall() bool {
	return k >= WallNInnerCornerW && k <= WallWSide
}

func (k TileKind) IsDoor() bool {
	return k == DoorClosed || k == DoorOpen
}

// Blocks reports whether movers are stopped by the tile.
func (k TileKind) Blocks() bool {
	return k.IsWall() || k == DoorClosed
}

// CollisionPriority resolves two stamps on one coordinate: the higher value
// wins, so room floors overwrite a neighbouring room's walls.
func (k TileKind) CollisionPriority() int {
	switch {
	case k == FloorOutdoor:
		return 0
	case k == DoorOpen:
		return 2
	case k == Floor:
		return 4
	default:
		return 3
	}
}

// ProjectilePriority orders tiles for projectile occlusion:
// floor < open door < closed door < wall.
func (k TileKind) ProjectilePriority() int {
	switch {
	case k == Floor || k == FloorOutdoor:
		return 0
	case k == DoorOpen:
		return 1
	case k == DoorClosed:
		return 2
	default:
		return 3
	}
}

func (k TileKind) glyph() byte {
	switch {
	case k == Floor:
		return '.'
	case k == FloorOutdoor:
		return ','
	case k == DoorClosed:
		return '+'
	case k == DoorOpen:
		return '/'
	}
	return '#'
}

// GridPos is an integer tile coordinate. North is +Y.
type GridPos struct {
	X, Y int
}

func (p GridPos) Add(dx, dy int) GridPos {
	return GridPos{X: p.X + dx, Y: p.Y + dy}
}

func (p GridPos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Neighbors4 returns the orthogonal neighbours in N, E, S, W order.
func (p GridPos) Neighbors4() [4]GridPos {
	return [4]GridPos{p.Add(0, 1), p.Add(1, 0), p.Add(0, -1), p.Add(-1, 0)}
}

type Tile struct {
	Pos      GridPos
	Kind     TileKind
	Corridor bool
}

// Shape selects the layout family.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeL
	ShapeT
	ShapeCross
)

var shapeNames = [...]string{"rectangle", "l_shape", "t_shape", "cross"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

func ParseShape(s string) (Shape, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range shapeNames {
		if name == s {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Rect is one constituent room in tile units. The room's outer south wall
// sits on row Y-1 and its north wall on row Y+H-1.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Spec is the declarative layout of one level: a plain rectangle, or a
// compound shape made of two rectangles. A compound Spec with no Rects is
// sized from the seed.
type Spec struct {
	Shape  Shape  `yaml:"shape"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Rects  []Rect `yaml:"rects,omitempty"`
}

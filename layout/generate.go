package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

var (
	ErrUnknownShape       = errors.New("layout: unknown shape")
	ErrInvalidDimensions  = errors.New("layout: room dimensions too small")
	ErrNotEnoughRects     = errors.New("layout: compound shape needs two rectangles")
	ErrDegenerateCorridor = errors.New("layout: rectangles do not overlap")
)

// MinRoomSide is the smallest width or height that still leaves floor.
const MinRoomSide = 3

// Generate builds the tile grid for spec. Compound specs without explicit
// rectangles are sized from rng first.
func Generate(spec Spec, rng *rand.Rand) (*Grid, error) {
	switch spec.Shape {
	case ShapeRectangle:
		if spec.Width < MinRoomSide || spec.Height < MinRoomSide {
			return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, spec.Width, spec.Height)
		}
		g := NewGrid()
		for _, t := range GenerateRoom(spec.Width, spec.Height, -(spec.Width / 2), -(spec.Height / 2), true) {
			g.Stamp(t)
		}
		return g, nil
	case ShapeL, ShapeT, ShapeCross:
		rects := spec.Rects
		if len(rects) == 0 && rng != nil {
			rects = RandomCompound(spec.Shape, rng).Rects
		}
		return generateCompound(spec.Shape, rects)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(spec.Shape))
}

func generateCompound(shape Shape, rects []Rect) (*Grid, error) {
	if len(rects) < 2 {
		return nil, fmt.Errorf("%w: %s has %d", ErrNotEnoughRects, shape, len(rects))
	}
	for _, r := range rects {
		if r.W < MinRoomSide || r.H < MinRoomSide {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidDimensions, r)
		}
	}

	entrance := 0
	for i, r := range rects {
		if r.Y < rects[entrance].Y {
			entrance = i
		}
	}

	g := NewGrid()
	for i, r := range rects {
		for _, t := range GenerateRoom(r.W, r.H, r.X, r.Y, i == entrance) {
			g.Stamp(t)
		}
	}

	corridor, err := CorridorCells(shape, rects[0], rects[1])
	if err != nil {
		slog.Debug("compound layout left disconnected", "shape", shape.String(), "error", err)
	}
	for _, p := range corridor {
		g.Stamp(Tile{Pos: p, Kind: Floor, Corridor: true})
	}
	return g, nil
}

// CorridorCells returns the cells carved to join two rectangles. L shapes
// get a three-row opening across the shared wall; T and cross shapes carve
// the whole intersection. An empty overlap yields ErrDegenerateCorridor and
// no cells.
func CorridorCells(shape Shape, a, b Rect) ([]GridPos, error) {
	switch shape {
	case ShapeL:
		return lCorridor(a, b)
	case ShapeT, ShapeCross:
		return intersection(a, b)
	}
	return nil, fmt.Errorf("%w: %s has no corridor", ErrUnknownShape, shape)
}

func lCorridor(main, ext Rect) ([]GridPos, error) {
	left := main.X + main.W - 1
	right := ext.X

	yStart := max(main.Y, ext.Y)
	yEnd := min(main.Y+main.H-1, ext.Y+ext.H-1)
	if yStart > yEnd {
		return nil, ErrDegenerateCorridor
	}
	center := (yStart + yEnd) / 2
	yMin := max(center-1, yStart)
	yMax := min(center+1, yEnd)

	unionMin := min(main.X, ext.X)
	unionMax := max(main.X+main.W-1, ext.X+ext.W-1)
	xMin := max(min(left, right)-1, unionMin)
	xMax := min(max(left, right)+1, unionMax)
	if xMin > xMax || yMin > yMax {
		return nil, ErrDegenerateCorridor
	}

	cells := make([]GridPos, 0, (xMax-xMin+1)*(yMax-yMin+1))
	for x := xMin; x <= xMax; x++ {
		for y := yMin; y <= yMax; y++ {
			cells = append(cells, GridPos{X: x, Y: y})
		}
	}
	return cells, nil
}

func intersection(a, b Rect) ([]GridPos, error) {
	xStart, xEnd := max(a.X, b.X), min(a.X+a.W, b.X+b.W)
	yStart, yEnd := max(a.Y, b.Y), min(a.Y+a.H, b.Y+b.H)
	if xStart >= xEnd || yStart >= yEnd {
		return nil, ErrDegenerateCorridor
	}
	cells := make([]GridPos, 0, (xEnd-xStart)*(yEnd-yStart))
	for x := xStart; x < xEnd; x++ {
		for y := yStart; y < yEnd; y++ {
			cells = append(cells, GridPos{X: x, Y: y})
		}
	}
	return cells, nil
}

// RandomCompound sizes a compound shape from rng, centred on the origin.
func RandomCompound(shape Shape, rng *rand.Rand) Spec {
	between := func(lo, hi int) int { return lo + rng.IntN(hi-lo) }

	switch shape {
	case ShapeL:
		mainW, mainH := between(6, 10), between(8, 12)
		extW, extH := between(5, 9), min(between(4, 7), mainH-1)
		main := Rect{X: -mainW / 2, Y: -mainH / 2, W: mainW, H: mainH}
		ext := Rect{X: main.X + mainW - 1, Y: main.Y, W: extW + 1, H: extH}
		return Spec{Shape: shape, Rects: []Rect{main, ext}}
	case ShapeT:
		beamW, beamH := between(8, 12), between(4, 6)
		pillarW, pillarH := between(4, 6), between(6, 9)
		top := Rect{X: -beamW / 2, Y: -pillarH/2 + pillarH - 1, W: beamW, H: beamH}
		pillar := Rect{X: -pillarW / 2, Y: -pillarH / 2, W: pillarW, H: pillarH}
		return Spec{Shape: shape, Rects: []Rect{top, pillar}}
	case ShapeCross:
		hW, hH := between(8, 12), between(4, 6)
		vW, vH := between(4, 6), between(8, 12)
		horizontal := Rect{X: -hW / 2, Y: -hH / 2, W: hW, H: hH}
		vertical := Rect{X: -vW / 2, Y: -vH / 2, W: vW, H: vH}
		return Spec{Shape: shape, Rects: []Rect{horizontal, vertical}}
	}
	return Spec{Shape: ShapeRectangle, Width: 10, Height: 8}
}

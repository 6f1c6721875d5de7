package component

import "github.com/jakecoffman/cp"

// Transform is a world-space position in pixels. North is +Y.
type Transform struct {
	X float64
	Y float64
}

func (t Transform) Pos() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

func (t *Transform) SetPos(v cp.Vector) {
	t.X = v.X
	t.Y = v.Y
}

var TransformComponent = NewComponent[Transform]()

package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon is the smallest velocity component treated as movement.
const Epsilon = 1e-4

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVector interpolates between a and b; t is not clamped.
func LerpVector(a, b cp.Vector, t float64) cp.Vector {
	return cp.Vector{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// is too short to have a direction.
func NormalizeOrZero(v cp.Vector) cp.Vector {
	l := v.Length()
	if l <= Epsilon {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

// Sign returns -1, 0 or 1.
func Sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// SnapToAxis returns the dominant cardinal direction of v. Ties go to the
// x axis and a zero vector snaps to fallback.
func SnapToAxis(v cp.Vector, fallback cp.Vector) cp.Vector {
	if math.Abs(v.X) <= Epsilon && math.Abs(v.Y) <= Epsilon {
		return fallback
	}
	if math.Abs(v.X) >= math.Abs(v.Y) {
		return cp.Vector{X: Sign(v.X)}
	}
	return cp.Vector{Y: Sign(v.Y)}
}

// MoveTowards steps from toward to by at most step.
func MoveTowards(from, to cp.Vector, step float64) cp.Vector {
	delta := to.Sub(from)
	dist := delta.Length()
	if dist <= step || dist <= Epsilon {
		return to
	}
	return from.Add(delta.Mult(step / dist))
}

package math

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis is a unit rotation axis. The zero value is not a valid axis; build
// one with NewAxis or use the predeclared axes.
type Axis struct {
	v mgl64.Vec3
}

// Principal axes.
var (
	AxisX = Axis{mgl64.Vec3{1, 0, 0}}
	AxisY = Axis{mgl64.Vec3{0, 1, 0}}
	AxisZ = Axis{mgl64.Vec3{0, 0, 1}}
)

// NewAxis normalizes (x, y, z) into an Axis.
func NewAxis(x, y, z float64) (Axis, error) {
	if !finite(x, y, z) {
		return Axis{}, fmt.Errorf("%w: rotation axis (%g, %g, %g) is not finite", ErrInvalidArgument, x, y, z)
	}
	v := mgl64.Vec3{x, y, z}
	l := v.Len()
	if l == 0 {
		return Axis{}, fmt.Errorf("%w: rotation axis has zero length", ErrInvalidArgument)
	}
	return Axis{v.Mul(1 / l)}, nil
}

// Vec returns the unit vector.
func (a Axis) Vec() mgl64.Vec3 {
	return a.v
}

// Neg returns the opposite axis.
func (a Axis) Neg() Axis {
	return Axis{a.v.Mul(-1)}
}

// IsZero reports whether a is the unset zero value.
func (a Axis) IsZero() bool {
	return a.v == mgl64.Vec3{}
}

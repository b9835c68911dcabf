package rig

import (
	"fmt"

	"github.com/Faultbox/wyrmrig/pkg/math"
)

// ShapeKind selects the primitive a backend draws for a joint.
type ShapeKind int

const (
	// ShapeCuboid is a unit cube centred on the origin.
	ShapeCuboid ShapeKind = iota
	// ShapeCylinder is a unit cylinder along Y centred on the origin.
	ShapeCylinder
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCuboid:
		return "cuboid"
	case ShapeCylinder:
		return "cylinder"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ParseShapeKind converts a config string to a ShapeKind.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch s {
	case "", "cuboid", "cube":
		return ShapeCuboid, nil
	case "cylinder":
		return ShapeCylinder, nil
	default:
		return 0, fmt.Errorf("%w: unknown shape %q", math.ErrInvalidArgument, s)
	}
}

// Shape describes the visual of one joint. Backends receive unit primitives;
// the joint's shape transform does the scaling.
type Shape struct {
	Kind      ShapeKind
	Length    float64
	Thickness float64
}

// VisualHandle identifies a visual inside one Scene.
type VisualHandle int

// Scene is the rendering collaborator a rig pushes its pose to.
// SetVisualTransform is called once per joint per frame and must not block.
type Scene interface {
	AddJointVisual(shape Shape) (VisualHandle, error)
	SetVisualTransform(h VisualHandle, t math.Transform)
}

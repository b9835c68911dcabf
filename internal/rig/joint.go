// Package rig implements a hierarchical joint skeleton with per-frame
// reset/update semantics.
package rig

import (
	"fmt"
	"iter"
	"slices"

	"github.com/Faultbox/wyrmrig/pkg/math"
)

// JointID indexes a joint inside its Joints arena.
type JointID int

// NoJoint is the parent of a root joint.
const NoJoint JointID = -1

// Joint is one rigid segment. Shape and end offsets are frozen at
// construction; only the local transform changes between frames.
type Joint struct {
	id        JointID
	length    float64
	thickness float64
	kind      ShapeKind

	shapeTransform math.Transform
	endTransform   math.Transform

	local  math.Transform
	global math.Transform

	parent   JointID
	children []JointID

	visual    VisualHandle
	hasVisual bool
}

// ID returns the joint's arena index.
func (j *Joint) ID() JointID { return j.id }

// Length returns the segment length along local Z.
func (j *Joint) Length() float64 { return j.length }

// Thickness returns the segment cross-section size.
func (j *Joint) Thickness() float64 { return j.thickness }

// Shape returns the visual descriptor handed to scenes.
func (j *Joint) Shape() Shape {
	return Shape{Kind: j.kind, Length: j.length, Thickness: j.thickness}
}

// Parent returns the parent id, or NoJoint for a root.
func (j *Joint) Parent() JointID { return j.parent }

// Children returns the child ids in registration order.
func (j *Joint) Children() []JointID { return slices.Clone(j.children) }

// ShapeTransform maps the unit primitive onto the segment.
func (j *Joint) ShapeTransform() math.Transform { return j.shapeTransform }

// EndTransform is the offset at which children attach.
func (j *Joint) EndTransform() math.Transform { return j.endTransform }

// Local returns the transform relative to the parent's end frame.
func (j *Joint) Local() math.Transform { return j.local }

// Global returns the world transform computed by the last update.
func (j *Joint) Global() math.Transform { return j.global }

// Visual returns the scene handle, if a scene is attached.
func (j *Joint) Visual() (VisualHandle, bool) { return j.visual, j.hasVisual }

// Reset sets the local transform back to identity.
func (j *Joint) Reset() {
	j.local = math.Identity()
}

// SetLocal replaces the local transform.
func (j *Joint) SetLocal(t math.Transform) {
	j.local = t
}

// Translate post-multiplies a translation onto the local transform.
func (j *Joint) Translate(dx, dy, dz float64) {
	j.local = j.local.Translate(dx, dy, dz)
}

// RotateAxis post-multiplies a rotation of deg degrees onto the local transform.
func (j *Joint) RotateAxis(deg float64, axis math.Axis) {
	j.local = j.local.RotateAxis(deg, axis)
}

// Rotate is RotateAxis with an unvalidated axis. The local transform is left
// untouched on error.
func (j *Joint) Rotate(deg, x, y, z float64) error {
	t, err := j.local.Rotate(deg, x, y, z)
	if err != nil {
		return err
	}
	j.local = t
	return nil
}

func (j *Joint) addChild(id JointID) {
	if slices.Contains(j.children, id) {
		return
	}
	j.children = append(j.children, id)
}

// Joints owns every joint of a skeleton. Parent and child links are ids into
// this arena, never owning pointers.
type Joints struct {
	list []*Joint
}

// NewJoints returns an empty arena.
func NewJoints() *Joints {
	return &Joints{}
}

// Add constructs a joint and links it under parent (NoJoint for a root).
func (js *Joints) Add(length, thickness float64, parent JointID, kind ShapeKind) (JointID, error) {
	if !math.Finite(length) || length <= 0 {
		return NoJoint, fmt.Errorf("%w: joint length must be positive, got %g", math.ErrInvalidArgument, length)
	}
	if !math.Finite(thickness) || thickness <= 0 {
		return NoJoint, fmt.Errorf("%w: joint thickness must be positive, got %g", math.ErrInvalidArgument, thickness)
	}
	if parent != NoJoint && !js.valid(parent) {
		return NoJoint, fmt.Errorf("%w: parent joint %d does not exist", math.ErrInvalidArgument, parent)
	}

	shape := math.Scaling(thickness, thickness, length).Translate(0, 0, 0.5)
	switch kind {
	case ShapeCuboid:
	case ShapeCylinder:
		// Cylinders are modelled along Y; lay them along Z.
		shape = shape.RotateAxis(90, math.AxisX)
	default:
		return NoJoint, fmt.Errorf("%w: unknown shape kind %d", math.ErrInvalidArgument, kind)
	}

	id := JointID(len(js.list))
	j := &Joint{
		id:             id,
		length:         length,
		thickness:      thickness,
		kind:           kind,
		shapeTransform: shape,
		endTransform:   math.Translation(0, 0, length),
		local:          math.Identity(),
		global:         math.Identity(),
		parent:         parent,
	}
	js.list = append(js.list, j)
	if parent != NoJoint {
		js.list[parent].addChild(id)
	}
	return id, nil
}

// Len returns the number of joints in the arena.
func (js *Joints) Len() int {
	return len(js.list)
}

// Get returns the joint with the given id, or nil.
func (js *Joints) Get(id JointID) *Joint {
	if !js.valid(id) {
		return nil
	}
	return js.list[id]
}

func (js *Joints) valid(id JointID) bool {
	return id >= 0 && int(id) < len(js.list)
}

// Hierarchy yields id and all its descendants in pre-order, siblings in
// registration order. Each call starts a fresh traversal.
func (js *Joints) Hierarchy(id JointID) iter.Seq[*Joint] {
	return func(yield func(*Joint) bool) {
		if !js.valid(id) {
			return
		}
		stack := []JointID{id}
		for len(stack) > 0 {
			cur := js.list[stack[len(stack)-1]]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			for i := len(cur.children) - 1; i >= 0; i-- {
				stack = append(stack, cur.children[i])
			}
		}
	}
}

// UpdateTransform recomputes the global transform of id and every
// descendant, parents strictly before children, and pushes
// global * shape to scene for joints that carry a visual. scene may be nil.
func (js *Joints) UpdateTransform(id JointID, scene Scene) {
	for j := range js.Hierarchy(id) {
		if j.parent == NoJoint {
			j.global = j.local
		} else {
			p := js.list[j.parent]
			j.global = p.global.Mul(p.endTransform).Mul(j.local)
		}
		if scene != nil && j.hasVisual {
			scene.SetVisualTransform(j.visual, j.global.Mul(j.shapeTransform))
		}
	}
}

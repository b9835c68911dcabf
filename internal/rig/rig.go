package rig

import (
	"fmt"

	"github.com/Faultbox/wyrmrig/pkg/math"
)

// Rig is a joint tree rooted at a single parentless joint.
type Rig struct {
	joints *Joints
	root   JointID
	named  *Registry
	scene  Scene
}

// New wraps an already built arena. root must exist and have no parent.
// The registry gets a "root" entry.
func New(js *Joints, root JointID) (*Rig, error) {
	j := js.Get(root)
	if j == nil {
		return nil, fmt.Errorf("%w: root joint %d does not exist", math.ErrInvalidArgument, root)
	}
	if j.parent != NoJoint {
		return nil, fmt.Errorf("%w: root joint %d has parent %d", math.ErrInvalidArgument, root, j.parent)
	}
	r := &Rig{
		joints: js,
		root:   root,
		named:  NewRegistry(),
	}
	r.named.Assign(root, Name("root"))
	return r, nil
}

// Root returns the root joint.
func (r *Rig) Root() *Joint {
	return r.joints.Get(r.root)
}

// Joint returns a joint by id, or nil.
func (r *Rig) Joint(id JointID) *Joint {
	return r.joints.Get(id)
}

// Joints returns the backing arena.
func (r *Rig) Joints() *Joints {
	return r.joints
}

// Named returns the label registry.
func (r *Rig) Named() *Registry {
	return r.named
}

// Lookup resolves a label such as "spine[3]" to a joint.
func (r *Rig) Lookup(label string) (*Joint, error) {
	path, err := ParsePath(label)
	if err != nil {
		return nil, err
	}
	id, ok := r.named.Get(path...)
	if !ok {
		return nil, fmt.Errorf("%w: no joint named %q", math.ErrInvalidArgument, label)
	}
	return r.joints.Get(id), nil
}

// Len returns the number of joints reachable from the root.
func (r *Rig) Len() int {
	n := 0
	for range r.joints.Hierarchy(r.root) {
		n++
	}
	return n
}

// Attach creates one visual per reachable joint in scene. Later updates
// push transforms to it. A backend failure aborts the attach.
func (r *Rig) Attach(scene Scene) error {
	for j := range r.joints.Hierarchy(r.root) {
		h, err := scene.AddJointVisual(j.Shape())
		if err != nil {
			return fmt.Errorf("creating visual for joint %d: %w", j.id, err)
		}
		j.visual = h
		j.hasVisual = true
	}
	r.scene = scene
	return nil
}

// Reset sets every local transform back to identity.
func (r *Rig) Reset() {
	for j := range r.joints.Hierarchy(r.root) {
		j.Reset()
	}
}

// Update recomputes every global transform in one top-down pass.
func (r *Rig) Update() {
	r.joints.UpdateTransform(r.root, r.scene)
}

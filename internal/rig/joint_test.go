package rig

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/wyrmrig/pkg/math"
)

const eps = 1e-9

func mustAdd(t *testing.T, js *Joints, length, thickness float64, parent JointID) JointID {
	t.Helper()
	id, err := js.Add(length, thickness, parent, ShapeCuboid)
	if err != nil {
		t.Fatalf("Add(%v, %v, %v): %v", length, thickness, parent, err)
	}
	return id
}

func TestAddInvalid(t *testing.T) {
	js := NewJoints()
	root := mustAdd(t, js, 1, 1, NoJoint)

	tests := []struct {
		name              string
		length, thickness float64
		parent            JointID
		kind              ShapeKind
	}{
		{"zero length", 0, 1, root, ShapeCuboid},
		{"negative length", -1, 1, root, ShapeCuboid},
		{"zero thickness", 1, 0, root, ShapeCuboid},
		{"nan length", gomath.NaN(), 1, root, ShapeCuboid},
		{"inf thickness", 1, gomath.Inf(1), root, ShapeCuboid},
		{"missing parent", 1, 1, 42, ShapeCuboid},
		{"unknown shape", 1, 1, root, ShapeKind(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := js.Add(tt.length, tt.thickness, tt.parent, tt.kind)
			if !errors.Is(err, math.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
	if js.Len() != 1 {
		t.Errorf("failed adds must not grow the arena, got %d joints", js.Len())
	}
	if len(js.Get(root).Children()) != 0 {
		t.Error("failed adds must not register children")
	}
}

func TestAddFreezesShapeAndEnd(t *testing.T) {
	js := NewJoints()
	id := mustAdd(t, js, 2, 0.5, NoJoint)
	j := js.Get(id)

	if !j.Local().ApproxEqual(math.Identity(), 0) {
		t.Error("new joint should have identity local transform")
	}
	end := j.EndTransform().ApplyToPoint(mgl64.Vec3{})
	if !math.VecApproxEqual(end, mgl64.Vec3{0, 0, 2}, eps) {
		t.Errorf("end offset: got %v, want (0, 0, 2)", end)
	}

	// Unit cube spans [-0.5, 0.5]; the shape lays it from z=0 to z=length.
	lo := j.ShapeTransform().ApplyToPoint(mgl64.Vec3{-0.5, -0.5, -0.5})
	hi := j.ShapeTransform().ApplyToPoint(mgl64.Vec3{0.5, 0.5, 0.5})
	if !math.VecApproxEqual(lo, mgl64.Vec3{-0.25, -0.25, 0}, eps) {
		t.Errorf("shape low corner: got %v", lo)
	}
	if !math.VecApproxEqual(hi, mgl64.Vec3{0.25, 0.25, 2}, eps) {
		t.Errorf("shape high corner: got %v", hi)
	}
}

func TestCylinderShapeAlongZ(t *testing.T) {
	js := NewJoints()
	id, err := js.Add(3, 1, NoJoint, ShapeCylinder)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	top := js.Get(id).ShapeTransform().ApplyToPoint(mgl64.Vec3{0, 0.5, 0})
	if !math.VecApproxEqual(top, mgl64.Vec3{0, 0, 3}, eps) {
		t.Errorf("cylinder top: got %v, want (0, 0, 3)", top)
	}
}

func TestChildRegisteredOnce(t *testing.T) {
	js := NewJoints()
	root := mustAdd(t, js, 1, 1, NoJoint)
	child := mustAdd(t, js, 1, 1, root)

	js.Get(root).addChild(child)
	js.Get(root).addChild(child)

	children := js.Get(root).Children()
	if len(children) != 1 || children[0] != child {
		t.Errorf("expected exactly one registration of %d, got %v", child, children)
	}
	if js.Get(child).Parent() != root {
		t.Errorf("child parent: got %d, want %d", js.Get(child).Parent(), root)
	}
}

func TestChildrenIsCopy(t *testing.T) {
	js := NewJoints()
	root := mustAdd(t, js, 1, 1, NoJoint)
	mustAdd(t, js, 1, 1, root)

	c := js.Get(root).Children()
	c[0] = 99
	if js.Get(root).Children()[0] == 99 {
		t.Error("Children should return a copy")
	}
}

func TestJointRotateRejectsZeroAxis(t *testing.T) {
	js := NewJoints()
	j := js.Get(mustAdd(t, js, 1, 1, NoJoint))
	j.Translate(1, 2, 3)
	before := j.Local()

	if err := j.Rotate(10, 0, 0, 0); !errors.Is(err, math.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if j.Local() != before {
		t.Error("failed Rotate must leave the local transform untouched")
	}
}

func TestHierarchyPreOrder(t *testing.T) {
	//        0
	//      / | \
	//     1  4  5
	//    / \     \
	//   2   3     6
	js := NewJoints()
	n0 := mustAdd(t, js, 1, 1, NoJoint)
	n1 := mustAdd(t, js, 1, 1, n0)
	mustAdd(t, js, 1, 1, n1)
	mustAdd(t, js, 1, 1, n1)
	mustAdd(t, js, 1, 1, n0)
	n5 := mustAdd(t, js, 1, 1, n0)
	mustAdd(t, js, 1, 1, n5)

	var got []JointID
	for j := range js.Hierarchy(n0) {
		got = append(got, j.ID())
	}
	want := []JointID{0, 1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("Hierarchy: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Hierarchy: got %v, want %v", got, want)
		}
	}

	// Restartable and subtree-scoped.
	var sub []JointID
	for j := range js.Hierarchy(n1) {
		sub = append(sub, j.ID())
	}
	if len(sub) != 3 || sub[0] != 1 || sub[1] != 2 || sub[2] != 3 {
		t.Errorf("subtree Hierarchy: got %v", sub)
	}
}

func TestHierarchyEarlyStop(t *testing.T) {
	js := NewJoints()
	root := mustAdd(t, js, 1, 1, NoJoint)
	prev := root
	for i := 0; i < 5; i++ {
		prev = mustAdd(t, js, 1, 1, prev)
	}
	n := 0
	for range js.Hierarchy(root) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected to stop after 2, got %d", n)
	}
}

func TestHierarchyDeepChain(t *testing.T) {
	js := NewJoints()
	prev := mustAdd(t, js, 1, 1, NoJoint)
	for i := 0; i < 100000; i++ {
		prev = mustAdd(t, js, 1, 1, prev)
	}
	n := 0
	for range js.Hierarchy(0) {
		n++
	}
	if n != js.Len() {
		t.Errorf("deep chain: visited %d of %d", n, js.Len())
	}
}

func TestHierarchyInvalidID(t *testing.T) {
	js := NewJoints()
	for range js.Hierarchy(3) {
		t.Fatal("invalid id should yield nothing")
	}
	if js.Get(NoJoint) != nil {
		t.Error("Get(NoJoint) should be nil")
	}
}

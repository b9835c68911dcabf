package viewer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/internal/scene"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// These tests stay away from SDL and GL; they cover the parts that do not
// need a context.

var _ rig.Scene = (*Viewer)(nil)

func TestInstances(t *testing.T) {
	v := &Viewer{}
	h, err := v.AddJointVisual(rig.Shape{Kind: rig.ShapeCylinder, Length: 2, Thickness: 1})
	if err != nil {
		t.Fatalf("AddJointVisual: %v", err)
	}
	if v.instances[h].model != mgl32.Ident4() {
		t.Error("new instance should start at identity")
	}

	v.SetVisualTransform(h, math.Translation(1, 2, 3))
	m := v.instances[h].model
	if m[12] != 1 || m[13] != 2 || m[14] != 3 {
		t.Errorf("model translation: %v", m.Col(3))
	}
	v.SetVisualTransform(5, math.Identity()) // ignored

	if _, err := v.AddJointVisual(rig.Shape{Kind: rig.ShapeKind(9)}); !errors.Is(err, math.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCameraFit(t *testing.T) {
	c := newCamera(mgl32.Vec3{3, 5, -10})
	base := c.eye

	c.fit(0.5)
	if c.eye != base {
		t.Errorf("small rig should keep the configured eye, got %v", c.eye)
	}

	c.fit(40)
	if c.eye.Len() <= base.Len() {
		t.Errorf("large rig should push the eye back: %v", c.eye)
	}
	if d := c.eye.Normalize().Dot(base.Normalize()); d < 0.9999 {
		t.Errorf("fit should keep the view direction, dot=%v", d)
	}

	if z := newCamera(mgl32.Vec3{}); z.eye.Len() == 0 {
		t.Error("zero eye should fall back to a default")
	}
}

func TestViewProjectionCentresOrigin(t *testing.T) {
	c := newCamera(mgl32.Vec3{3, 5, -10})
	c.setAspect(800, 600)
	p := c.viewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if p[3] <= 0 {
		t.Fatalf("origin behind the camera: %v", p)
	}
	ndc := p.Vec3().Mul(1 / p[3])
	if mgl32.Abs(ndc[0]) > 1e-5 || mgl32.Abs(ndc[1]) > 1e-5 {
		t.Errorf("origin should project to the centre, got %v", ndc)
	}
}

func TestInterleave(t *testing.T) {
	m := scene.MeshFor(rig.ShapeCuboid)
	v := interleave(m)
	if len(v) != len(m.Positions)*6 {
		t.Fatalf("interleaved length %d", len(v))
	}
	if v[3] != m.Normals[0][0] || v[4] != m.Normals[0][1] || v[5] != m.Normals[0][2] {
		t.Error("normal should follow position")
	}
}

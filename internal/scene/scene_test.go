package scene

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

func chain(t *testing.T, n int, kind rig.ShapeKind) *rig.Rig {
	t.Helper()
	js := rig.NewJoints()
	parent := rig.NoJoint
	for i := 0; i < n; i++ {
		id, err := js.Add(1, 0.2, parent, kind)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		parent = id
	}
	r, err := rig.New(js, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRecorderTracksLatest(t *testing.T) {
	rec := NewRecorder(true)
	r := chain(t, 3, rig.ShapeCuboid)
	if err := r.Attach(rec); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if rec.Len() != 3 {
		t.Fatalf("visuals: got %d, want 3", rec.Len())
	}

	r.Update()
	r.Root().Translate(5, 0, 0)
	r.Update()

	if rec.Pushes() != 6 {
		t.Errorf("pushes: got %d, want 6", rec.Pushes())
	}
	v, err := rec.Visual(2)
	if err != nil {
		t.Fatalf("Visual: %v", err)
	}
	want := r.Joint(2).Global().Mul(r.Joint(2).ShapeTransform())
	if v.Transform != want {
		t.Errorf("latest transform %v, want %v", v.Transform, want)
	}
	if hist := rec.History(2); len(hist) != 2 || hist[1] != want {
		t.Errorf("history: %v", hist)
	}
	if _, err := rec.Visual(9); !errors.Is(err, math.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown visual, got %v", err)
	}
}

func TestRecorderWithoutHistory(t *testing.T) {
	rec := NewRecorder(false)
	h, _ := rec.AddJointVisual(rig.Shape{Kind: rig.ShapeCuboid, Length: 1, Thickness: 1})
	rec.SetVisualTransform(h, math.Translation(1, 2, 3))
	rec.SetVisualTransform(rig.VisualHandle(7), math.Translation(1, 2, 3))
	if rec.History(h) != nil {
		t.Error("history should be nil")
	}
	if rec.Pushes() != 1 {
		t.Errorf("unknown handle should be ignored, pushes=%d", rec.Pushes())
	}
}

type failingScene struct{ after int }

func (f *failingScene) AddJointVisual(rig.Shape) (rig.VisualHandle, error) {
	if f.after == 0 {
		return 0, errors.New("out of buffers")
	}
	f.after--
	return 100, nil
}

func (f *failingScene) SetVisualTransform(rig.VisualHandle, math.Transform) {}

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(false), NewRecorder(false)
	// Offset b so handles differ between backends.
	b.AddJointVisual(rig.Shape{})

	m := NewMulti(a, b)
	r := chain(t, 2, rig.ShapeCylinder)
	if err := r.Attach(m); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	r.Update()

	for i := 0; i < 2; i++ {
		want := r.Joint(rig.JointID(i)).Global().Mul(r.Joint(rig.JointID(i)).ShapeTransform())
		va, _ := a.Visual(rig.VisualHandle(i))
		vb, _ := b.Visual(rig.VisualHandle(i + 1))
		if va.Transform != want || vb.Transform != want {
			t.Errorf("joint %d not forwarded to both backends", i)
		}
		if vb.Shape.Kind != rig.ShapeCylinder {
			t.Errorf("shape not forwarded: %v", vb.Shape.Kind)
		}
	}
}

func TestMultiAbortsOnFailure(t *testing.T) {
	rec := NewRecorder(false)
	m := NewMulti(rec, &failingScene{after: 1})
	if _, err := m.AddJointVisual(rig.Shape{}); err != nil {
		t.Fatalf("first visual: %v", err)
	}
	if _, err := m.AddJointVisual(rig.Shape{}); err == nil {
		t.Fatal("expected failure from second backend")
	}
	// The bad handle is never issued.
	m.SetVisualTransform(1, math.Translation(1, 0, 0))
	if rec.Pushes() != 0 {
		t.Error("transform forwarded for a failed visual")
	}
}

func TestMeshes(t *testing.T) {
	cube := MeshFor(rig.ShapeCuboid)
	if len(cube.Positions) != 24 || len(cube.Indices) != 36 {
		t.Errorf("cube: %d vertices, %d indices", len(cube.Positions), len(cube.Indices))
	}
	prism := MeshFor(rig.ShapeCylinder)
	wantTris := PrismSides*2 + PrismSides*2
	if len(prism.Indices) != wantTris*3 {
		t.Errorf("prism: %d indices, want %d", len(prism.Indices), wantTris*3)
	}
	for _, m := range []Mesh{cube, prism} {
		if len(m.Normals) != len(m.Positions) {
			t.Error("every vertex needs a normal")
		}
		for _, idx := range m.Indices {
			if int(idx) >= len(m.Positions) {
				t.Fatalf("index %d out of range", idx)
			}
		}
		for _, p := range m.Positions {
			for _, c := range p {
				if c < -0.5 || c > 0.5 {
					t.Fatalf("vertex %v outside the unit box", p)
				}
			}
		}
	}
}

func posedRecorder(t *testing.T) (*Recorder, *rig.Rig) {
	t.Helper()
	rec := NewRecorder(false)
	r := chain(t, 3, rig.ShapeCuboid)
	r.Named().At(rig.Name("tail")).Add(1)
	if err := r.Attach(rec); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	r.Root().RotateAxis(30, math.AxisY)
	r.Update()
	return rec, r
}

func TestExportGLTFBinary(t *testing.T) {
	rec, r := posedRecorder(t)

	var buf bytes.Buffer
	if err := ExportGLTF(rec, VisualNames(r), &buf, true); err != nil {
		t.Fatalf("ExportGLTF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Fatal("missing GLB magic")
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&doc); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Scenes[0].Nodes) != 3 {
		t.Fatalf("nodes: %d, scene nodes %d", len(doc.Nodes), len(doc.Scenes[0].Nodes))
	}
	if len(doc.Meshes) != 1 {
		t.Errorf("one shared cube mesh expected, got %d", len(doc.Meshes))
	}
	names := []string{"root", "tail[0]", "visual2"}
	for i, n := range doc.Nodes {
		if n.Name != names[i] {
			t.Errorf("node %d name %q, want %q", i, n.Name, names[i])
		}
		v, _ := rec.Visual(rig.VisualHandle(i))
		if n.Matrix != v.Transform.Float32() {
			t.Errorf("node %d matrix %v, want %v", i, n.Matrix, v.Transform.Float32())
		}
	}
}

func TestSaveGLTF(t *testing.T) {
	rec, r := posedRecorder(t)
	dir := t.TempDir()

	for _, name := range []string{"pose.gltf", "out/pose.glb"} {
		path := filepath.Join(dir, name)
		if err := SaveGLTF(rec, VisualNames(r), path); err != nil {
			t.Fatalf("SaveGLTF(%s): %v", name, err)
		}
		doc, err := gltf.Open(path)
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		if len(doc.Nodes) != 3 {
			t.Errorf("%s: %d nodes", name, len(doc.Nodes))
		}
		if len(doc.Accessors) != 3 {
			t.Errorf("%s: expected index, position, normal accessors, got %d", name, len(doc.Accessors))
		}
	}
}

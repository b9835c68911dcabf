package motion

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

func TestTangentAngle(t *testing.T) {
	tests := []struct {
		name      string
		i         int
		phase     float64
		n         int
		magnitude float64
		want      float64
	}{
		{"peak slope", 0, 0, 8, 1, gomath.Pi / 4},
		{"quarter turn is flat", 2, 0, 8, 1, 0},
		{"half turn slopes down", 4, 0, 8, 1, -gomath.Pi / 4},
		{"phase shifts samples", 0, 2, 8, 1, 0},
		{"zero magnitude", 3, 0.5, 8, 0, 0},
		{"steep", 0, 0, 4, 1e12, gomath.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TangentAngle(tt.i, tt.phase, tt.n, tt.magnitude)
			if gomath.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TangentAngle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBendAngle(t *testing.T) {
	a, err := BendAngle(1, 0.5)
	if err != nil {
		t.Fatalf("BendAngle: %v", err)
	}
	if gomath.Abs(a-gomath.Pi) > 1e-12 {
		t.Errorf("diameter chord should turn by pi, got %v", a)
	}

	a, err = BendAngle(1, 1)
	if err != nil {
		t.Fatalf("BendAngle: %v", err)
	}
	if gomath.Abs(a-gomath.Pi/3) > 1e-12 {
		t.Errorf("chord equal to radius should turn by pi/3, got %v", a)
	}

	for _, r := range []float64{0.49, 0, -1, gomath.NaN()} {
		if _, err := BendAngle(1, r); !errors.Is(err, math.ErrInvalidArgument) {
			t.Errorf("BendAngle(1, %v): expected ErrInvalidArgument, got %v", r, err)
		}
	}
}

func TestWavePhaseAt(t *testing.T) {
	w := Wave{Phase: 1, PhaseRate: -2}
	if got := w.PhaseAt(3); got != -5 {
		t.Errorf("PhaseAt(3) = %v, want -5", got)
	}
}

func chainRig(t *testing.T, n int) (*rig.Joints, []rig.JointID) {
	t.Helper()
	js := rig.NewJoints()
	ids := make([]rig.JointID, 0, n)
	parent := rig.NoJoint
	for i := 0; i < n; i++ {
		id, err := js.Add(1, 0.1, parent, rig.ShapeCuboid)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		ids = append(ids, id)
		parent = id
	}
	return js, ids
}

func TestChainApplyFollowsCurve(t *testing.T) {
	js, ids := chainRig(t, 10)
	c := Chain{
		Joints: ids,
		Wave:   Wave{Phase: 0.3, PhaseRate: 1.5, Magnitude: 0.8, Axis: math.AxisX},
	}
	const tm = 1.25
	c.Apply(js, tm)
	js.UpdateTransform(ids[0], nil)

	want := c.Angles(tm)
	for i, id := range ids {
		z := js.Get(id).Global().ApplyToVector(mgl64.Vec3{0, 0, 1})
		got := gomath.Atan2(-z[1], z[2])
		if gomath.Abs(got-want[i]) > 1e-9 {
			t.Errorf("joint %d: cumulative angle %v, want %v", i, got, want[i])
		}
	}
}

func TestChainApplyAccumulatorResetsPerCall(t *testing.T) {
	js, ids := chainRig(t, 4)
	c := Chain{Joints: ids, Wave: Wave{Magnitude: 1, Axis: math.AxisY}}

	c.Apply(js, 0)
	first := js.Get(ids[0]).Local()

	for _, id := range ids {
		js.Get(id).Reset()
	}
	c.Apply(js, 0)
	if js.Get(ids[0]).Local() != first {
		t.Error("second Apply should start from a zero accumulator")
	}
}

func TestChainValidate(t *testing.T) {
	js, ids := chainRig(t, 2)
	tests := []struct {
		name  string
		chain Chain
		ok    bool
	}{
		{"valid", Chain{Joints: ids, Wave: Wave{Magnitude: 1, Axis: math.AxisX}}, true},
		{"empty chain", Chain{Wave: Wave{Axis: math.AxisZ}}, true},
		{"zero axis", Chain{Joints: ids, Wave: Wave{Magnitude: 1}}, false},
		{"nan magnitude", Chain{Joints: ids, Wave: Wave{Magnitude: gomath.NaN(), Axis: math.AxisX}}, false},
		{"missing joint", Chain{Joints: []rig.JointID{ids[0], 7}, Wave: Wave{Axis: math.AxisX}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chain.Validate(js)
			if tt.ok && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, math.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestChainApplyZeroAxisPanics(t *testing.T) {
	js, ids := chainRig(t, 2)
	before := js.Get(ids[0]).Local()
	defer func() {
		if recover() == nil {
			t.Error("applying a wave without an axis should panic")
		}
		if js.Get(ids[0]).Local() != before {
			t.Error("joint should keep its local transform")
		}
	}()
	Chain{Joints: ids, Wave: Wave{Magnitude: 1}}.Apply(js, 0)
}

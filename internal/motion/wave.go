// Package motion poses a rig procedurally from time-varying waves.
package motion

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// TangentAngle returns the slope angle, in radians, of the curve
// magnitude*sin(θ) at sample i of an n-sample chain, θ = 2π(i+phase)/n.
func TangentAngle(i int, phase float64, n int, magnitude float64) float64 {
	theta := math.Lerp(float64(i)+phase, 0, float64(n), 0, 2*gomath.Pi)
	return gomath.Atan(magnitude * gomath.Cos(theta))
}

// BendAngle returns the turn, in radians, between consecutive segments of
// the given length laid as chords on a circle of the given radius.
func BendAngle(length, radius float64) (float64, error) {
	if length <= 0 || radius < length/2 || !math.Finite(length, radius) {
		return 0, fmt.Errorf("%w: path radius %g too small for segment length %g", math.ErrInvalidArgument, radius, length)
	}
	return 2 * gomath.Asin(length/(2*radius)), nil
}

// Wave parameterizes one chain's undulation.
type Wave struct {
	Phase     float64   // phase offset in samples
	PhaseRate float64   // samples per second the wave travels
	Magnitude float64   // amplitude of magnitude*sin(θ)
	Axis      math.Axis // rotation axis in each joint's local frame
}

// Validate rejects a missing axis and non-finite parameters.
func (w Wave) Validate() error {
	if w.Axis.IsZero() {
		return fmt.Errorf("%w: wave has no axis", math.ErrInvalidArgument)
	}
	if !math.Finite(w.Phase, w.PhaseRate, w.Magnitude) {
		return fmt.Errorf("%w: wave parameters must be finite", math.ErrInvalidArgument)
	}
	return nil
}

// PhaseAt returns the wave phase at time t.
func (w Wave) PhaseAt(t float64) float64 {
	return w.Phase + w.PhaseRate*t
}

// Chain is an ordered run of joints sharing one incremental-angle
// accumulator per frame.
type Chain struct {
	Joints []rig.JointID
	Wave   Wave
}

// Validate checks the wave and that every joint exists in js. Apply
// assumes a chain that passed.
func (c Chain) Validate(js *rig.Joints) error {
	if err := c.Wave.Validate(); err != nil {
		return err
	}
	for i, id := range c.Joints {
		if js.Get(id) == nil {
			return fmt.Errorf("%w: chain joint %d (id %d) does not exist", math.ErrInvalidArgument, i, id)
		}
	}
	return nil
}

// Angles returns the absolute tangent angle of each joint at time t.
func (c Chain) Angles(t float64) []float64 {
	phase := c.Wave.PhaseAt(t)
	out := make([]float64, len(c.Joints))
	for i := range c.Joints {
		out[i] = TangentAngle(i, phase, len(c.Joints), c.Wave.Magnitude)
	}
	return out
}

// Apply rotates each joint by the difference between its tangent angle and
// its predecessor's, so the chain's cumulative rotation follows the curve.
// The accumulator starts at zero for every call.
func (c Chain) Apply(js *rig.Joints, t float64) {
	prev := 0.0
	for i, global := range c.Angles(t) {
		js.Get(c.Joints[i]).RotateAxis(math.Degrees(global-prev), c.Wave.Axis)
		prev = global
	}
}

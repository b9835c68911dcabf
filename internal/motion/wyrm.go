package motion

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// Params is the full description of a winged spine: structure plus motion.
// Structure is fixed once the rig is built; motion may be swapped per frame.
type Params struct {
	SpineJoints    int
	SpineLength    float64
	SpineThickness float64

	WingJoints    int
	WingLength    float64
	WingThickness float64
	WingMount     int // spine index the wings attach to

	Shape rig.ShapeKind

	Motion MotionParams
}

// MotionParams drives the per-frame pose.
type MotionParams struct {
	PathRadius   float64 // radius of the circular flight path
	OrbitRate    float64 // ω₁, radians per second around the vertical axis
	BobAmplitude float64 // A of the vertical bob A*cos(ω₀t)
	BobRate      float64 // ω₀, radians per second
	Bend         bool    // bend the spine to follow the path
	WingSpread   float64 // wing mount angle in degrees

	Spine Wave
	Wings [2]Wave
}

func (p Params) validate() error {
	if p.SpineJoints < 1 {
		return fmt.Errorf("%w: spine needs at least one joint, got %d", math.ErrInvalidArgument, p.SpineJoints)
	}
	if p.WingJoints < 0 {
		return fmt.Errorf("%w: negative wing joint count %d", math.ErrInvalidArgument, p.WingJoints)
	}
	if p.WingJoints > 0 && (p.WingMount < 0 || p.WingMount >= p.SpineJoints) {
		return fmt.Errorf("%w: wing mount %d outside spine of %d joints", math.ErrInvalidArgument, p.WingMount, p.SpineJoints)
	}
	sizes := []float64{p.SpineLength, p.SpineThickness}
	if p.WingJoints > 0 {
		sizes = append(sizes, p.WingLength, p.WingThickness)
	}
	for _, v := range sizes {
		if v <= 0 || !math.Finite(v) {
			return fmt.Errorf("%w: segment sizes must be positive, got %g", math.ErrInvalidArgument, v)
		}
	}
	return p.Motion.validate(p.SpineLength)
}

// Validate reports whether NewWyrm would accept p.
func Validate(p Params) error {
	return p.validate()
}

func (m MotionParams) validate(segment float64) error {
	if !math.Finite(m.PathRadius, m.OrbitRate, m.BobAmplitude, m.BobRate, m.WingSpread) {
		return fmt.Errorf("%w: motion parameters must be finite", math.ErrInvalidArgument)
	}
	if m.Bend {
		if _, err := BendAngle(segment, m.PathRadius); err != nil {
			return err
		}
	}
	waves := []Wave{m.Spine, m.Wings[0], m.Wings[1]}
	for i, w := range waves {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("wave %d: %w", i, err)
		}
	}
	return nil
}

// Wyrm is an undulating spine with two flapping wings flying a circle.
type Wyrm struct {
	rig    *rig.Rig
	spine  []rig.JointID
	wings  [2][]rig.JointID
	params Params
	bend   float64
}

// NewWyrm validates p and builds the rig. Joint names: "root",
// "spine[i]", "wings[k][i]".
func NewWyrm(p Params) (*Wyrm, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	js := rig.NewJoints()
	w := &Wyrm{params: p}

	parent := rig.NoJoint
	for i := 0; i < p.SpineJoints; i++ {
		id, err := js.Add(p.SpineLength, p.SpineThickness, parent, p.Shape)
		if err != nil {
			return nil, fmt.Errorf("spine joint %d: %w", i, err)
		}
		w.spine = append(w.spine, id)
		parent = id
	}
	for k := 0; k < len(w.wings) && p.WingJoints > 0; k++ {
		parent := w.spine[p.WingMount]
		for i := 0; i < p.WingJoints; i++ {
			id, err := js.Add(p.WingLength, p.WingThickness, parent, p.Shape)
			if err != nil {
				return nil, fmt.Errorf("wing %d joint %d: %w", k, i, err)
			}
			w.wings[k] = append(w.wings[k], id)
			parent = id
		}
	}

	r, err := rig.New(js, w.spine[0])
	if err != nil {
		return nil, err
	}
	for _, id := range w.spine {
		r.Named().At(rig.Name("spine")).Add(id)
	}
	for k, wing := range w.wings {
		for _, id := range wing {
			r.Named().At(rig.Name("wings"), rig.Index(k)).Add(id)
		}
	}
	w.rig = r
	w.bend = w.bendAngle()
	return w, nil
}

func (w *Wyrm) bendAngle() float64 {
	if !w.params.Motion.Bend {
		return 0
	}
	a, _ := BendAngle(w.params.SpineLength, w.params.Motion.PathRadius)
	return a
}

// Rig returns the rig being animated.
func (w *Wyrm) Rig() *rig.Rig {
	return w.rig
}

// Params returns the current parameters.
func (w *Wyrm) Params() Params {
	return w.params
}

// SetMotion replaces the motion parameters. Takes effect on the next Update.
func (w *Wyrm) SetMotion(m MotionParams) error {
	if err := m.validate(w.params.SpineLength); err != nil {
		return err
	}
	w.params.Motion = m
	w.bend = w.bendAngle()
	return nil
}

// Chains returns the wave chains posed each frame: spine, left wing, right wing.
func (w *Wyrm) Chains() []Chain {
	chains := []Chain{{Joints: w.spine, Wave: w.params.Motion.Spine}}
	for k, wing := range w.wings {
		if len(wing) > 0 {
			chains = append(chains, Chain{Joints: wing, Wave: w.params.Motion.Wings[k]})
		}
	}
	return chains
}

// OnFrame poses the rig for time t and recomputes global transforms.
func (w *Wyrm) OnFrame(frame int, t, dt float64) {
	w.Update(t)
}

// Update poses the rig for time t and recomputes global transforms.
func (w *Wyrm) Update(t float64) {
	m := w.params.Motion
	js := w.rig.Joints()

	w.rig.Reset()

	root := w.rig.Root()
	root.Translate(0, m.BobAmplitude*gomath.Cos(m.BobRate*t), 0)
	root.RotateAxis(math.Degrees(m.OrbitRate*t), math.AxisY)
	root.Translate(m.PathRadius, 0, 0)
	// Keep the body trailing behind the direction of travel.
	heading := 1.0
	if m.OrbitRate < 0 {
		root.RotateAxis(180, math.AxisY)
		heading = -1
	}
	root.Translate(0, 0, -w.params.SpineLength/2)

	if w.bend != 0 {
		for _, id := range w.spine[1:] {
			js.Get(id).RotateAxis(math.Degrees(-heading*w.bend), math.AxisY)
		}
	}

	for k, wing := range w.wings {
		if len(wing) == 0 {
			continue
		}
		side := 1.0
		if k == 1 {
			side = -1
		}
		js.Get(wing[0]).RotateAxis(side*m.WingSpread, math.AxisY)
	}

	for _, c := range w.Chains() {
		c.Apply(js, t)
	}

	w.rig.Update()
}

package config

import (
	"fmt"

	"github.com/Faultbox/wyrmrig/internal/driver"
	"github.com/Faultbox/wyrmrig/internal/logger"
	"github.com/Faultbox/wyrmrig/internal/motion"
	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// Validate checks timing, rig structure, motion, viewer and logging
// settings. Errors from the domain packages wrap math.ErrInvalidArgument.
func (c *Config) Validate() error {
	if err := c.Driver().Validate(); err != nil {
		return fmt.Errorf("animation: %w", err)
	}
	p, err := c.Params()
	if err != nil {
		return err
	}
	if err := motion.Validate(p); err != nil {
		return fmt.Errorf("rig: %w", err)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer: %w: size %dx%d", math.ErrInvalidArgument, c.Viewer.Width, c.Viewer.Height)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Driver returns the frame driver timing.
func (c *Config) Driver() driver.Config {
	return driver.Config{
		FrameRate: c.Animation.FrameRate,
		RunTime:   c.Animation.RunTime,
	}
}

// Params converts the rig and motion sections to model parameters.
func (c *Config) Params() (motion.Params, error) {
	shape, err := rig.ParseShapeKind(c.Rig.Shape)
	if err != nil {
		return motion.Params{}, fmt.Errorf("rig: %w", err)
	}
	m, err := c.Motion.Params()
	if err != nil {
		return motion.Params{}, err
	}
	return motion.Params{
		SpineJoints:    c.Rig.SpineJoints,
		SpineLength:    c.Rig.SpineLength,
		SpineThickness: c.Rig.SpineThickness,
		WingJoints:     c.Rig.WingJoints,
		WingLength:     c.Rig.WingLength,
		WingThickness:  c.Rig.WingThickness,
		WingMount:      c.Rig.WingMount,
		Shape:          shape,
		Motion:         m,
	}, nil
}

// Params converts the motion section.
func (m MotionConfig) Params() (motion.MotionParams, error) {
	spine, err := m.Spine.wave()
	if err != nil {
		return motion.MotionParams{}, fmt.Errorf("motion.spine: %w", err)
	}
	left, err := m.LeftWing.wave()
	if err != nil {
		return motion.MotionParams{}, fmt.Errorf("motion.left_wing: %w", err)
	}
	right, err := m.RightWing.wave()
	if err != nil {
		return motion.MotionParams{}, fmt.Errorf("motion.right_wing: %w", err)
	}
	return motion.MotionParams{
		PathRadius:   m.PathRadius,
		OrbitRate:    m.OrbitRate,
		BobAmplitude: m.BobAmplitude,
		BobRate:      m.BobRate,
		Bend:         m.Bend,
		WingSpread:   m.WingSpread,
		Spine:        spine,
		Wings:        [2]motion.Wave{left, right},
	}, nil
}

func (w WaveConfig) wave() (motion.Wave, error) {
	axis, err := math.NewAxis(w.Axis[0], w.Axis[1], w.Axis[2])
	if err != nil {
		return motion.Wave{}, err
	}
	return motion.Wave{
		Phase:     w.Phase,
		PhaseRate: w.PhaseRate,
		Magnitude: w.Magnitude,
		Axis:      axis,
	}, nil
}

// Package config handles animator configuration loading and management.
package config

// Config holds all animator settings.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Rig       RigConfig       `yaml:"rig"`
	Motion    MotionConfig    `yaml:"motion"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AnimationConfig holds frame timing.
type AnimationConfig struct {
	FrameRate float64 `yaml:"frame_rate"` // frames per second
	RunTime   float64 `yaml:"run_time"`   // seconds
}

// RigConfig holds the fixed structure of the spine and wings.
type RigConfig struct {
	SpineJoints    int     `yaml:"spine_joints"`
	SpineLength    float64 `yaml:"spine_length"`
	SpineThickness float64 `yaml:"spine_thickness"`
	WingJoints     int     `yaml:"wing_joints"`
	WingLength     float64 `yaml:"wing_length"`
	WingThickness  float64 `yaml:"wing_thickness"`
	WingMount      int     `yaml:"wing_mount"` // spine index the wings attach to
	Shape          string  `yaml:"shape"`      // cuboid or cylinder
}

// MotionConfig holds the per-frame motion model. It may be hot-reloaded.
type MotionConfig struct {
	PathRadius   float64    `yaml:"path_radius"`
	OrbitRate    float64    `yaml:"orbit_rate"` // radians per second
	BobAmplitude float64    `yaml:"bob_amplitude"`
	BobRate      float64    `yaml:"bob_rate"` // radians per second
	Bend         bool       `yaml:"bend"`
	WingSpread   float64    `yaml:"wing_spread"` // degrees
	Spine        WaveConfig `yaml:"spine"`
	LeftWing     WaveConfig `yaml:"left_wing"`
	RightWing    WaveConfig `yaml:"right_wing"`
}

// WaveConfig describes one chain's undulation.
type WaveConfig struct {
	Phase     float64    `yaml:"phase"`
	PhaseRate float64    `yaml:"phase_rate"`
	Magnitude float64    `yaml:"magnitude"`
	Axis      [3]float64 `yaml:"axis,flow"`
}

// ViewerConfig holds window and camera settings.
type ViewerConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Camera     [3]float32 `yaml:"camera,flow"`
	Background [3]float32 `yaml:"background,flow"`
}

// OutputConfig holds headless outputs.
type OutputConfig struct {
	GLTFPath string `yaml:"gltf_path"` // pose export written at the end of a run
	Listen   string `yaml:"listen"`    // websocket stream address, empty to disable
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			FrameRate: 60,
			RunTime:   10,
		},
		Rig: RigConfig{
			SpineJoints:    12,
			SpineLength:    0.5,
			SpineThickness: 0.3,
			WingJoints:     5,
			WingLength:     0.6,
			WingThickness:  0.08,
			WingMount:      3,
			Shape:          "cuboid",
		},
		Motion: MotionConfig{
			PathRadius:   4,
			OrbitRate:    0.6,
			BobAmplitude: 0.3,
			BobRate:      1.5,
			Bend:         true,
			WingSpread:   90,
			Spine:        WaveConfig{PhaseRate: -2, Magnitude: 0.4, Axis: [3]float64{1, 0, 0}},
			LeftWing:     WaveConfig{PhaseRate: -4, Magnitude: 1.2, Axis: [3]float64{1, 0, 0}},
			RightWing:    WaveConfig{PhaseRate: -4, Magnitude: 1.2, Axis: [3]float64{1, 0, 0}},
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Camera:     [3]float32{3, 5, -10},
			Background: [3]float32{0, 0, 0},
		},
		Output: OutputConfig{
			GLTFPath: "",
			Listen:   "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

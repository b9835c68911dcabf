package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagFPS        = flag.Float64("fps", 0, "Frames per second")
	flagRunTime    = flag.Float64("runtime", 0, "Animation length in seconds")
	flagGLTF       = flag.String("gltf", "", "Write the final pose to this glTF/GLB file")
	flagListen     = flag.String("listen", "", "Serve the pose stream on this address")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ParseArgs parses args instead of os.Args[1:], for subcommands.
func ParseArgs(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFPS > 0 {
		cfg.Animation.FrameRate = *flagFPS
	}
	if *flagRunTime > 0 {
		cfg.Animation.RunTime = *flagRunTime
	}
	if *flagGLTF != "" {
		cfg.Output.GLTFPath = *flagGLTF
	}
	if *flagListen != "" {
		cfg.Output.Listen = *flagListen
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}

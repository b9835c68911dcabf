// wyrmtool runs the wyrm rig without a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/wyrmrig/internal/animation"
	"github.com/Faultbox/wyrmrig/internal/config"
	"github.com/Faultbox/wyrmrig/internal/logger"
)

var (
	flagAt   = flag.Float64("at", 0, "Animation time to pose the rig at (export, dump)")
	flagSpew = flag.Bool("spew", false, "Dump full joint state (dump)")
	flagHold = flag.Bool("hold", false, "Keep serving the last frame after the run ends (serve)")
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if err := config.ParseArgs(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	switch command {
	case "export":
		cmdExport(config.Args())
	case "serve":
		cmdServe()
	case "dump":
		cmdDump()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`wyrmtool - headless wyrm rig utility

Usage:
  wyrmtool <command> [options]

Commands:
  export [-at t] <file.gltf|file.glb>  Write the pose at time t as glTF
  serve [-listen addr] [-hold]         Stream poses over websocket
  dump [-at t] [-spew]                 Print the joint hierarchy

Common options:
  -config <file>   Config file
  -fps, -runtime   Animation timing
  -debug           Debug logging

Examples:
  wyrmtool export -at 2.5 pose.glb
  wyrmtool serve -listen :8080 -runtime 60
  wyrmtool dump -spew`)
}

// setup loads config and logging and builds a headless animation.
func setup() *animation.Animation {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	a, err := animation.New(cfg, nil)
	if err != nil {
		logger.Error("failed to create animation", zap.Error(err))
		os.Exit(1)
	}
	return a
}

func cmdExport(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: wyrmtool export [-at t] <file.gltf|file.glb>")
		os.Exit(1)
	}
	a := setup()
	defer logger.Sync()

	a.Wyrm().Update(*flagAt)
	if err := a.ExportGLTF(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d joints at t=%g to %s\n", a.Recorder().Len(), *flagAt, args[0])
}

func cmdServe() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Output.Listen == "" {
		cfg.Output.Listen = ":8080"
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	a, err := animation.New(cfg, nil)
	if err != nil {
		logger.Error("failed to create animation", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path := config.Path(); path != "" {
		go func() {
			err := config.Watch(ctx, path, func(c *config.Config) {
				if err := a.UpdateMotion(c.Motion); err != nil {
					logger.Warn("ignoring motion settings", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("animation error", zap.Error(err))
	}
	if *flagHold && ctx.Err() == nil {
		logger.Info("run finished, holding last frame", zap.String("addr", a.Addr().String()))
		<-ctx.Done()
	}
	if err := a.Close(); err != nil {
		logger.Error("closing animation", zap.Error(err))
	}
}

func cmdDump() {
	a := setup()
	defer logger.Sync()
	defer a.Close()

	a.Wyrm().Update(*flagAt)
	r := a.Wyrm().Rig()
	if *flagSpew {
		fmt.Print(r.Sdump())
		return
	}
	if err := r.Dump(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

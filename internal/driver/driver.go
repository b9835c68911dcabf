// Package driver delivers animation frames at a fixed rate for a fixed
// duration.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/wyrmrig/internal/logger"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// MaxFrameRate is the exclusive upper bound on the frame rate.
const MaxFrameRate = 1000

// Config holds driver timing.
type Config struct {
	FrameRate float64 // frames per second, in (0, MaxFrameRate)
	RunTime   float64 // seconds of animation time, > 0
}

// Validate checks the timing bounds.
func (c Config) Validate() error {
	if !math.Finite(c.FrameRate) || c.FrameRate <= 0 || c.FrameRate >= MaxFrameRate {
		return fmt.Errorf("%w: frame rate must be in (0, %d), got %g", math.ErrInvalidArgument, MaxFrameRate, c.FrameRate)
	}
	if !math.Finite(c.RunTime) || c.RunTime <= 0 {
		return fmt.Errorf("%w: run time must be positive, got %g", math.ErrInvalidArgument, c.RunTime)
	}
	return nil
}

// FrameHandler receives one call per frame. t is animation time in seconds
// and dt the time since the previous frame.
type FrameHandler interface {
	OnFrame(frame int, t, dt float64)
}

// HandlerFunc adapts a function to FrameHandler.
type HandlerFunc func(frame int, t, dt float64)

// OnFrame calls f.
func (f HandlerFunc) OnFrame(frame int, t, dt float64) {
	f(frame, t, dt)
}

// Stats summarizes a run so far.
type Stats struct {
	Frames int
	LastT  float64
}

// Driver generates (frame, t, dt) and calls the handler synchronously.
// It is not safe for concurrent use.
type Driver struct {
	cfg     Config
	handler FrameHandler
	runID   uuid.UUID

	frame int
	prevT float64
	done  bool
}

// New validates cfg and returns a driver positioned before frame 0.
func New(cfg Config, h FrameHandler) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: nil frame handler", math.ErrInvalidArgument)
	}
	return &Driver{
		cfg:     cfg,
		handler: h,
		runID:   uuid.New(),
	}, nil
}

// RunID identifies this run in logs and streams.
func (d *Driver) RunID() uuid.UUID {
	return d.runID
}

// Interval is the wall-clock time between frames.
func (d *Driver) Interval() time.Duration {
	return time.Duration(float64(time.Second) / d.cfg.FrameRate)
}

// Done reports whether the final frame has been delivered.
func (d *Driver) Done() bool {
	return d.done
}

// Stats returns frames delivered and the last animation time.
func (d *Driver) Stats() Stats {
	return Stats{Frames: d.frame, LastT: d.prevT}
}

// Step delivers the next frame and reports whether more remain. The frame
// whose time reaches RunTime is delivered, then the driver stops.
func (d *Driver) Step() bool {
	if d.done {
		return false
	}
	t := float64(d.frame) / d.cfg.FrameRate
	dt := 1 / d.cfg.FrameRate
	if d.frame > 0 {
		dt = t - d.prevT
	}

	d.handler.OnFrame(d.frame, t, dt)

	if t >= d.cfg.RunTime {
		d.done = true
	}
	d.prevT = t
	d.frame++
	return !d.done
}

// Drain delivers every remaining frame without pacing.
func (d *Driver) Drain() Stats {
	for d.Step() {
	}
	return d.Stats()
}

// Run delivers frames paced at the frame rate on the calling goroutine
// until the run completes or ctx is cancelled. Cancellation takes effect
// between frames.
func (d *Driver) Run(ctx context.Context) error {
	logger.Info("animation started",
		zap.String("run", d.runID.String()),
		zap.Float64("fps", d.cfg.FrameRate),
		zap.Float64("run_time", d.cfg.RunTime),
	)

	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()

	start := time.Now()
	for d.Step() {
		if ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
				continue
			}
		}
		logger.Info("animation cancelled",
			zap.String("run", d.runID.String()),
			zap.Int("frames", d.frame),
		)
		return ctx.Err()
	}

	logger.Info("animation finished",
		zap.String("run", d.runID.String()),
		zap.Int("frames", d.frame),
		zap.Float64("t", d.prevT),
		zap.Duration("wall", time.Since(start)),
	)
	return nil
}

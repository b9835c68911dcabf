// Package animation wires the motion model, frame driver and scene
// backends into one runnable animation.
package animation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wyrmrig/internal/config"
	"github.com/Faultbox/wyrmrig/internal/driver"
	"github.com/Faultbox/wyrmrig/internal/logger"
	"github.com/Faultbox/wyrmrig/internal/motion"
	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/internal/scene"
	"github.com/Faultbox/wyrmrig/internal/scene/stream"
)

// Title is the window title prefix.
const Title = "wyrmrig"

// Display is an interactive scene driven from the render loop.
type Display interface {
	rig.Scene
	FrameRig(radius float64)
	Poll() (quit bool)
	Render()
	SetTitle(title string)
}

// Animation is one configured run.
type Animation struct {
	cfg *config.Config

	wyrm     *motion.Wyrm
	drv      *driver.Driver
	recorder *scene.Recorder
	hub      *stream.Hub
	server   *http.Server
	listener net.Listener
	display  Display

	motion chan motion.MotionParams
	lastT  float64
}

// New builds the rig from cfg and attaches every enabled backend: the
// display when not nil, the websocket stream when Output.Listen is set, and
// always an in-memory recorder. The caller owns the display.
func New(cfg *config.Config, display Display) (*Animation, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	w, err := motion.NewWyrm(params)
	if err != nil {
		return nil, fmt.Errorf("building rig: %w", err)
	}

	a := &Animation{
		cfg:      cfg,
		wyrm:     w,
		recorder: scene.NewRecorder(false),
		motion:   make(chan motion.MotionParams, 1),
	}

	a.drv, err = driver.New(cfg.Driver(), a)
	if err != nil {
		return nil, err
	}

	// The recorder comes first and starts empty, so its handles match the
	// rig's.
	scenes := []rig.Scene{a.recorder}

	if cfg.Output.Listen != "" {
		a.hub = stream.NewHub(a.drv.RunID())
		a.listener, err = net.Listen("tcp", cfg.Output.Listen)
		if err != nil {
			return nil, fmt.Errorf("listening on %s: %w", cfg.Output.Listen, err)
		}
		a.server = &http.Server{Handler: a.hub.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.server.Serve(a.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("stream server stopped", zap.Error(err))
			}
		}()
		logger.Info("streaming poses", zap.String("addr", a.listener.Addr().String()))
		scenes = append(scenes, a.hub)
	}

	if display != nil {
		a.display = display
		display.FrameRig(reach(params))
		scenes = append(scenes, display)
	}

	if err := w.Rig().Attach(scene.NewMulti(scenes...)); err != nil {
		a.Close()
		return nil, err
	}

	logger.Info("animation ready",
		zap.String("run", a.drv.RunID().String()),
		zap.Int("joints", w.Rig().Len()),
		zap.Bool("windowed", display != nil),
	)
	return a, nil
}

// reach estimates how far from the origin the rig can get.
func reach(p motion.Params) float64 {
	spine := float64(p.SpineJoints) * p.SpineLength
	wing := float64(p.WingJoints) * p.WingLength
	return p.Motion.PathRadius + spine/2 + wing + p.Motion.BobAmplitude
}

// Wyrm returns the animated model.
func (a *Animation) Wyrm() *motion.Wyrm {
	return a.wyrm
}

// Recorder returns the recorder holding the latest pose.
func (a *Animation) Recorder() *scene.Recorder {
	return a.recorder
}

// Driver returns the frame driver.
func (a *Animation) Driver() *driver.Driver {
	return a.drv
}

// Addr returns the stream listener address, or nil without a stream.
func (a *Animation) Addr() net.Addr {
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// UpdateMotion queues new motion settings. They apply at the start of the
// next frame; a newer update replaces one not yet applied. Safe to call
// from any goroutine.
func (a *Animation) UpdateMotion(m config.MotionConfig) error {
	p, err := m.Params()
	if err != nil {
		return err
	}
	for {
		select {
		case a.motion <- p:
			return nil
		default:
		}
		select {
		case <-a.motion:
		default:
		}
	}
}

// OnFrame poses the rig and publishes it.
func (a *Animation) OnFrame(frame int, t, dt float64) {
	select {
	case p := <-a.motion:
		if err := a.wyrm.SetMotion(p); err != nil {
			logger.Warn("motion update rejected", zap.Error(err))
		} else {
			logger.Info("motion updated", zap.Int("frame", frame))
		}
	default:
	}

	a.wyrm.OnFrame(frame, t, dt)
	a.lastT = t

	if a.hub != nil {
		if err := a.hub.Publish(frame, t); err != nil {
			logger.Warn("publish failed", zap.Int("frame", frame), zap.Error(err))
		}
	}
	if every := int(a.cfg.Animation.FrameRate + 0.5); every <= 1 || frame%every == 0 {
		logger.Debug("frame", zap.Int("frame", frame), zap.Float64("t", t), zap.Float64("dt", dt))
	}
}

// Run plays the animation to the end or until ctx is done. With a display
// it also stops when the display asks to quit, and must be called from the
// goroutine that owns the display.
func (a *Animation) Run(ctx context.Context) error {
	if a.display == nil {
		err := a.drv.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	logger.Info("starting render loop", zap.String("run", a.drv.RunID().String()))
	ticker := time.NewTicker(a.drv.Interval())
	defer ticker.Stop()

	fpsTimer := time.Now()
	rendered := 0
	for {
		if a.display.Poll() {
			logger.Info("display closed", zap.Int("frames", a.drv.Stats().Frames))
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		more := a.drv.Step()
		a.display.Render()
		rendered++

		if time.Since(fpsTimer) >= time.Second {
			a.display.SetTitle(fmt.Sprintf("%s  t=%.2fs  %d fps", Title, a.lastT, rendered))
			rendered = 0
			fpsTimer = time.Now()
		}
		if !more {
			logger.Info("animation finished", zap.Int("frames", a.drv.Stats().Frames))
			return nil
		}
	}
}

// ExportGLTF writes the latest pose to path.
func (a *Animation) ExportGLTF(path string) error {
	if err := scene.SaveGLTF(a.recorder, scene.VisualNames(a.wyrm.Rig()), path); err != nil {
		return err
	}
	logger.Info("pose exported", zap.String("path", path), zap.Int("visuals", a.recorder.Len()))
	return nil
}

// Close writes the configured glTF export and stops the stream.
func (a *Animation) Close() error {
	var err error
	if a.cfg.Output.GLTFPath != "" && a.recorder.Pushes() > 0 {
		err = a.ExportGLTF(a.cfg.Output.GLTFPath)
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		a.server.Shutdown(ctx)
		cancel()
	}
	return err
}

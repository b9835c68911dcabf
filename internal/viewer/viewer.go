// Package viewer draws a rig in an SDL2 window with OpenGL.
//
// All calls must come from the main goroutine; the package locks it to the
// main OS thread at init.
package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// Config holds window and camera settings.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Camera     mgl32.Vec3 // eye position, looking at the origin
	Background [3]float32
}

type instance struct {
	kind  rig.ShapeKind
	model mgl32.Mat4
}

// Viewer is a rig.Scene that renders to a window.
type Viewer struct {
	win *window
	ren *renderer

	instances []instance
	camera    camera
}

// New opens the window and prepares the GL pipeline.
func New(cfg Config) (*Viewer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: window size %dx%d", math.ErrInvalidArgument, cfg.Width, cfg.Height)
	}
	win, err := newWindow(cfg)
	if err != nil {
		return nil, err
	}
	ren, err := newRenderer(cfg.Background)
	if err != nil {
		win.close()
		return nil, err
	}

	v := &Viewer{
		win:    win,
		ren:    ren,
		camera: newCamera(cfg.Camera),
	}
	v.resize(win.drawableSize())
	return v, nil
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	v.ren.close()
	v.win.close()
}

// AddJointVisual allocates an instance for shape.
func (v *Viewer) AddJointVisual(shape rig.Shape) (rig.VisualHandle, error) {
	return v.addInstance(shape.Kind)
}

func (v *Viewer) addInstance(kind rig.ShapeKind) (rig.VisualHandle, error) {
	if kind != rig.ShapeCuboid && kind != rig.ShapeCylinder {
		return 0, fmt.Errorf("%w: cannot draw %v", math.ErrInvalidArgument, kind)
	}
	v.instances = append(v.instances, instance{kind: kind, model: mgl32.Ident4()})
	return rig.VisualHandle(len(v.instances) - 1), nil
}

// SetVisualTransform stores the model matrix used by the next Render.
func (v *Viewer) SetVisualTransform(h rig.VisualHandle, t math.Transform) {
	if h < 0 || int(h) >= len(v.instances) {
		return
	}
	v.instances[h].model = mgl32.Mat4(t.Float32())
}

// FrameRig scales the camera distance so a rig reaching radius units from
// the origin fits the view.
func (v *Viewer) FrameRig(radius float64) {
	v.camera.fit(float32(radius))
}

// SetTitle updates the window title.
func (v *Viewer) SetTitle(title string) {
	v.win.setTitle(title)
}

// Poll handles pending window events and reports whether the user asked to
// quit.
func (v *Viewer) Poll() bool {
	r := pollEvents()
	if r.resized {
		v.resize(v.win.drawableSize())
	}
	return r.quit
}

// Render draws the latest transforms and presents the frame.
func (v *Viewer) Render() {
	v.ren.draw(v.camera.viewProjection(), v.instances)
	v.win.swap()
}

func (v *Viewer) resize(width, height int) {
	v.ren.resize(width, height)
	v.camera.setAspect(width, height)
}

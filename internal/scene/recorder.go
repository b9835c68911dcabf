// Package scene holds rig.Scene implementations that do not need a window:
// an in-memory recorder, a fan-out, and glTF pose export.
package scene

import (
	"fmt"
	"sync"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// Visual is one registered joint visual and its latest transform.
type Visual struct {
	Handle    rig.VisualHandle
	Shape     rig.Shape
	Transform math.Transform
}

// Recorder keeps every visual and the last transform pushed to it.
// It is safe for concurrent use.
type Recorder struct {
	mu       sync.RWMutex
	visuals  []Visual
	pushes   int
	history  [][]math.Transform
	keepHist bool
}

// NewRecorder returns an empty recorder. With history set, every pushed
// transform is kept per visual.
func NewRecorder(history bool) *Recorder {
	return &Recorder{keepHist: history}
}

// AddJointVisual registers a visual and returns its handle.
func (r *Recorder) AddJointVisual(shape rig.Shape) (rig.VisualHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := rig.VisualHandle(len(r.visuals))
	r.visuals = append(r.visuals, Visual{Handle: h, Shape: shape, Transform: math.Identity()})
	if r.keepHist {
		r.history = append(r.history, nil)
	}
	return h, nil
}

// SetVisualTransform stores t as the latest transform of h. Unknown handles
// are ignored.
func (r *Recorder) SetVisualTransform(h rig.VisualHandle, t math.Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h < 0 || int(h) >= len(r.visuals) {
		return
	}
	r.visuals[h].Transform = t
	r.pushes++
	if r.keepHist {
		r.history[h] = append(r.history[h], t)
	}
}

// Len returns the number of visuals.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.visuals)
}

// Pushes returns how many transforms have been set in total.
func (r *Recorder) Pushes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pushes
}

// Visual returns the visual behind h.
func (r *Recorder) Visual(h rig.VisualHandle) (Visual, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h < 0 || int(h) >= len(r.visuals) {
		return Visual{}, fmt.Errorf("%w: no visual %d", math.ErrInvalidArgument, h)
	}
	return r.visuals[h], nil
}

// Snapshot copies all visuals in handle order.
func (r *Recorder) Snapshot() []Visual {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Visual, len(r.visuals))
	copy(out, r.visuals)
	return out
}

// History returns the transforms pushed to h, oldest first. It is nil when
// the recorder does not keep history.
func (r *Recorder) History(h rig.VisualHandle) []math.Transform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.keepHist || h < 0 || int(h) >= len(r.history) {
		return nil
	}
	out := make([]math.Transform, len(r.history[h]))
	copy(out, r.history[h])
	return out
}

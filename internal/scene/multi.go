package scene

import (
	"fmt"

	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/pkg/math"
)

// Multi forwards every visual to several scenes. Each backend hands out its
// own handles; Multi maps its handle to theirs.
type Multi struct {
	scenes  []rig.Scene
	handles [][]rig.VisualHandle
}

// NewMulti fans out to scenes in order.
func NewMulti(scenes ...rig.Scene) *Multi {
	return &Multi{scenes: scenes}
}

// AddJointVisual registers shape with every backend. The first failure
// aborts; backends before it keep their visual.
func (m *Multi) AddJointVisual(shape rig.Shape) (rig.VisualHandle, error) {
	hs := make([]rig.VisualHandle, len(m.scenes))
	for i, s := range m.scenes {
		h, err := s.AddJointVisual(shape)
		if err != nil {
			return 0, fmt.Errorf("scene %d: %w", i, err)
		}
		hs[i] = h
	}
	m.handles = append(m.handles, hs)
	return rig.VisualHandle(len(m.handles) - 1), nil
}

// SetVisualTransform forwards t to every backend.
func (m *Multi) SetVisualTransform(h rig.VisualHandle, t math.Transform) {
	if h < 0 || int(h) >= len(m.handles) {
		return
	}
	for i, s := range m.scenes {
		s.SetVisualTransform(m.handles[h][i], t)
	}
}

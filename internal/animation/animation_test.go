package animation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/wyrmrig/internal/config"
	"github.com/Faultbox/wyrmrig/internal/scene"
	"github.com/Faultbox/wyrmrig/internal/scene/stream"
)

type fakeDisplay struct {
	*scene.Recorder
	radius   float64
	renders  int
	quitAt   int
	titleSet bool
}

func (d *fakeDisplay) FrameRig(radius float64) {
	d.radius = radius
}

func (d *fakeDisplay) Poll() bool {
	return d.quitAt > 0 && d.renders >= d.quitAt
}

func (d *fakeDisplay) Render() {
	d.renders++
}

func (d *fakeDisplay) SetTitle(string) {
	d.titleSet = true
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Animation.FrameRate = 100
	cfg.Animation.RunTime = 0.05
	cfg.Rig.SpineJoints = 4
	cfg.Rig.WingJoints = 2
	cfg.Rig.WingMount = 1
	return cfg
}

func TestHeadlessRunExportsPose(t *testing.T) {
	cfg := testConfig()
	cfg.Output.GLTFPath = filepath.Join(t.TempDir(), "pose.glb")

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := a.Driver().Stats().Frames; got != 6 {
		t.Errorf("frames: got %d, want 6", got)
	}
	joints := 4 + 2*2
	if a.Recorder().Len() != joints || a.Recorder().Pushes() != 6*joints {
		t.Errorf("recorder: %d visuals, %d pushes", a.Recorder().Len(), a.Recorder().Pushes())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	doc, err := gltf.Open(cfg.Output.GLTFPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(doc.Nodes) != joints || doc.Nodes[0].Name != "root" {
		t.Errorf("exported %d nodes, first %q", len(doc.Nodes), doc.Nodes[0].Name)
	}
}

func TestMotionUpdateAppliesAtFrame(t *testing.T) {
	a, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	m := config.Default().Motion
	m.PathRadius = 11
	m.OrbitRate = 0
	if err := a.UpdateMotion(m); err != nil {
		t.Fatalf("UpdateMotion: %v", err)
	}
	m.PathRadius = 12
	if err := a.UpdateMotion(m); err != nil {
		t.Fatalf("UpdateMotion: %v", err)
	}
	if a.Wyrm().Params().Motion.PathRadius == 12 {
		t.Fatal("motion must not change before a frame")
	}

	a.Driver().Step()
	if got := a.Wyrm().Params().Motion.PathRadius; got != 12 {
		t.Errorf("latest update should win, got radius %v", got)
	}

	bad := m
	bad.Spine.Axis = [3]float64{}
	if err := a.UpdateMotion(bad); err == nil {
		t.Error("expected error for zero axis")
	}
}

func TestStreamServesFrames(t *testing.T) {
	cfg := testConfig()
	cfg.Output.Listen = "127.0.0.1:0"

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	a.Driver().Drain()

	resp, err := http.Get("http://" + a.Addr().String() + "/frame")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var msg stream.FrameMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if msg.Frame != 5 || msg.Run != a.Driver().RunID().String() {
		t.Errorf("unexpected frame message: frame=%d run=%s", msg.Frame, msg.Run)
	}
	if len(msg.Visuals) != a.Recorder().Len() {
		t.Errorf("visuals: %d", len(msg.Visuals))
	}
}

func TestCloseWithoutFramesSkipsExport(t *testing.T) {
	cfg := testConfig()
	cfg.Output.GLTFPath = filepath.Join(t.TempDir(), "never.gltf")
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(cfg.Output.GLTFPath); !os.IsNotExist(err) {
		t.Error("no pose was computed, nothing should be written")
	}
}

func TestDisplayLoop(t *testing.T) {
	d := &fakeDisplay{Recorder: scene.NewRecorder(false)}
	a, err := New(testConfig(), d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if d.radius <= config.Default().Motion.PathRadius {
		t.Errorf("display should be framed around the whole path, got radius %v", d.radius)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.renders != 6 {
		t.Errorf("renders: got %d, want one per frame (6)", d.renders)
	}
	if d.Pushes() != 6*d.Len() {
		t.Errorf("display pushes: %d for %d visuals", d.Pushes(), d.Len())
	}
}

func TestDisplayQuitStopsRun(t *testing.T) {
	cfg := testConfig()
	cfg.Animation.RunTime = 60
	d := &fakeDisplay{Recorder: scene.NewRecorder(false), quitAt: 3}
	a, err := New(cfg, d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.renders != 3 || a.Driver().Done() {
		t.Errorf("expected to stop after 3 frames, rendered %d", d.renders)
	}
}

package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/wyrmrig/internal/rig"
)

// NodeName returns the glTF node name for a visual.
func NodeName(names map[rig.VisualHandle]string, h rig.VisualHandle) string {
	if n, ok := names[h]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("visual%d", h)
}

// VisualNames maps the visuals a rig registered to its joint labels.
// Only valid when the rig was attached to that scene directly.
func VisualNames(r *rig.Rig) map[rig.VisualHandle]string {
	labels := r.Named().Names()
	out := make(map[rig.VisualHandle]string, len(labels))
	for id, label := range labels {
		if h, ok := r.Joint(id).Visual(); ok {
			out[h] = label
		}
	}
	return out
}

// BuildGLTF turns the recorder's latest pose into a document: one mesh per
// shape kind in use and one root node per visual, its matrix set to the
// visual's transform.
func BuildGLTF(rec *Recorder, names map[rig.VisualHandle]string) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})

	meshes := make(map[rig.ShapeKind]uint32)
	meshIndex := func(kind rig.ShapeKind) uint32 {
		if idx, ok := meshes[kind]; ok {
			return idx
		}
		m := MeshFor(kind)
		indices := modeler.WriteIndices(doc, m.Indices)
		attributes := map[string]uint32{
			"POSITION": modeler.WritePosition(doc, m.Positions),
			"NORMAL":   modeler.WriteNormal(doc, m.Normals),
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: kind.String(),
			Primitives: []*gltf.Primitive{
				{
					Indices:    &indices,
					Attributes: attributes,
					Material:   gltf.Index(0),
				},
			},
		})
		idx := uint32(len(doc.Meshes) - 1)
		meshes[kind] = idx
		return idx
	}

	for _, v := range rec.Snapshot() {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:     NodeName(names, v.Handle),
			Mesh:     gltf.Index(meshIndex(v.Shape.Kind)),
			Matrix:   v.Transform.Float32(),
			Rotation: [4]float32{0, 0, 0, 1},
			Scale:    [3]float32{1, 1, 1},
		})
	}
	return doc
}

// ExportGLTF writes the recorder's latest pose to w, as GLB when binary is
// set and as JSON with embedded buffers otherwise.
func ExportGLTF(rec *Recorder, names map[rig.VisualHandle]string, w io.Writer, binary bool) error {
	doc := BuildGLTF(rec, names)
	if !binary {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding gltf")
	}
	return nil
}

// SaveGLTF writes the pose to path. A ".glb" extension selects the binary
// container.
func SaveGLTF(rec *Recorder, names map[rig.VisualHandle]string, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	binary := strings.EqualFold(filepath.Ext(path), ".glb")
	if err := ExportGLTF(rec, names, f, binary); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

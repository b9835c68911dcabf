package scene

import (
	gomath "math"

	"github.com/Faultbox/wyrmrig/internal/rig"
)

// PrismSides is the number of faces used to approximate a cylinder.
const PrismSides = 8

// Mesh is an indexed triangle list with flat per-face normals.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
}

// MeshFor returns the unit primitive for kind: a cube spanning [-0.5, 0.5]
// on each axis, or a prism of radius 0.5 along Y over the same range.
func MeshFor(kind rig.ShapeKind) Mesh {
	if kind == rig.ShapeCylinder {
		return prismMesh(PrismSides)
	}
	return cubeMesh()
}

func (m *Mesh) quad(a, b, c, d, n [3]float32) {
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, a, b, c, d)
	m.Normals = append(m.Normals, n, n, n, n)
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

func cubeMesh() Mesh {
	var m Mesh
	const h = 0.5
	// Counter-clockwise seen from outside.
	m.quad([3]float32{-h, -h, h}, [3]float32{h, -h, h}, [3]float32{h, h, h}, [3]float32{-h, h, h}, [3]float32{0, 0, 1})
	m.quad([3]float32{h, -h, -h}, [3]float32{-h, -h, -h}, [3]float32{-h, h, -h}, [3]float32{h, h, -h}, [3]float32{0, 0, -1})
	m.quad([3]float32{h, -h, h}, [3]float32{h, -h, -h}, [3]float32{h, h, -h}, [3]float32{h, h, h}, [3]float32{1, 0, 0})
	m.quad([3]float32{-h, -h, -h}, [3]float32{-h, -h, h}, [3]float32{-h, h, h}, [3]float32{-h, h, -h}, [3]float32{-1, 0, 0})
	m.quad([3]float32{-h, h, h}, [3]float32{h, h, h}, [3]float32{h, h, -h}, [3]float32{-h, h, -h}, [3]float32{0, 1, 0})
	m.quad([3]float32{-h, -h, -h}, [3]float32{h, -h, -h}, [3]float32{h, -h, h}, [3]float32{-h, -h, h}, [3]float32{0, -1, 0})
	return m
}

func prismMesh(sides int) Mesh {
	var m Mesh
	const r, h = 0.5, 0.5

	ring := make([][2]float32, sides)
	for i := range ring {
		a := 2 * gomath.Pi * float64(i) / float64(sides)
		ring[i] = [2]float32{float32(r * gomath.Cos(a)), float32(r * gomath.Sin(a))}
	}

	for i := 0; i < sides; i++ {
		p, q := ring[i], ring[(i+1)%sides]
		mid := 2 * gomath.Pi * (float64(i) + 0.5) / float64(sides)
		n := [3]float32{float32(gomath.Cos(mid)), 0, float32(gomath.Sin(mid))}
		m.quad(
			[3]float32{q[0], -h, q[1]},
			[3]float32{p[0], -h, p[1]},
			[3]float32{p[0], h, p[1]},
			[3]float32{q[0], h, q[1]},
			n,
		)
	}

	// Caps as triangle fans.
	for _, y := range []float32{h, -h} {
		n := [3]float32{0, 1, 0}
		if y < 0 {
			n[1] = -1
		}
		centre := uint32(len(m.Positions))
		m.Positions = append(m.Positions, [3]float32{0, y, 0})
		m.Normals = append(m.Normals, n)
		for _, p := range ring {
			m.Positions = append(m.Positions, [3]float32{p[0], y, p[1]})
			m.Normals = append(m.Normals, n)
		}
		for i := 0; i < sides; i++ {
			a := centre + 1 + uint32(i)
			b := centre + 1 + uint32((i+1)%sides)
			if y > 0 {
				m.Indices = append(m.Indices, centre, b, a)
			} else {
				m.Indices = append(m.Indices, centre, a, b)
			}
		}
	}
	return m
}

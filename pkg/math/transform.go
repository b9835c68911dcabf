// Package math provides the affine transform type used by the rig.
package math

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidArgument is wrapped by every setup-time validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// Transform is a 4x4 affine matrix in column-major order (OpenGL compatible).
// Layout:
//
//	[m0 m4 m8  m12]
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// Transforms are values. Translate, Rotate and Scale post-multiply, so each
// call acts in the frame established by the calls before it.
type Transform mgl64.Mat4

// Identity returns the identity transform.
func Identity() Transform {
	return Transform(mgl64.Ident4())
}

// Translation returns a pure translation.
func Translation(dx, dy, dz float64) Transform {
	return Transform(mgl64.Translate3D(dx, dy, dz))
}

// Scaling returns a pure scale.
func Scaling(sx, sy, sz float64) Transform {
	return Transform(mgl64.Scale3D(sx, sy, sz))
}

// Rotation returns a rotation of deg degrees about axis. It panics on the
// zero Axis, which would otherwise yield a uniform scale.
func Rotation(deg float64, axis Axis) Transform {
	if axis.IsZero() {
		panic("math: rotation about the zero Axis")
	}
	return Transform(mgl64.HomogRotate3D(Radians(deg), axis.v))
}

// Compose returns a * b. b is applied first.
func Compose(a, b Transform) Transform {
	return a.Mul(b)
}

// Mul returns t * other.
func (t Transform) Mul(other Transform) Transform {
	return Transform(mgl64.Mat4(t).Mul4(mgl64.Mat4(other)))
}

// Translate returns t * Translation(dx, dy, dz).
func (t Transform) Translate(dx, dy, dz float64) Transform {
	return t.Mul(Translation(dx, dy, dz))
}

// Scale returns t * Scaling(sx, sy, sz).
func (t Transform) Scale(sx, sy, sz float64) Transform {
	return t.Mul(Scaling(sx, sy, sz))
}

// Rotate returns t * R where R rotates deg degrees about (x, y, z).
// The axis is normalized internally; a zero or non-finite axis is rejected.
func (t Transform) Rotate(deg, x, y, z float64) (Transform, error) {
	axis, err := NewAxis(x, y, z)
	if err != nil {
		return t, err
	}
	return t.RotateAxis(deg, axis), nil
}

// RotateAxis returns t * Rotation(deg, axis). axis must come from NewAxis
// or be one of the predeclared axes.
func (t Transform) RotateAxis(deg float64, axis Axis) Transform {
	return t.Mul(Rotation(deg, axis))
}

// ApplyToPoint transforms a point (w=1).
func (t Transform) ApplyToPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Mat4(t).Mul4x1(p.Vec4(1)).Vec3()
}

// ApplyToVector transforms a direction (w=0), ignoring translation.
func (t Transform) ApplyToVector(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Mat4(t).Mul4x1(v.Vec4(0)).Vec3()
}

// Position returns where the local origin lands.
func (t Transform) Position() mgl64.Vec3 {
	return mgl64.Vec3{t[12], t[13], t[14]}
}

// Matrix returns the underlying mathgl matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Mat4(t)
}

// Float32 returns the matrix narrowed for GPU upload and file export.
func (t Transform) Float32() [16]float32 {
	var out [16]float32
	for i, v := range t {
		out[i] = float32(v)
	}
	return out
}

// ApproxEqual reports whether every element differs by at most eps.
func (t Transform) ApproxEqual(other Transform, eps float64) bool {
	for i := range t {
		if gomath.Abs(t[i]-other[i]) > eps {
			return false
		}
	}
	return true
}

// VecApproxEqual reports whether every component of a and b differs by at
// most eps. The tolerance is absolute, also for components near zero.
func VecApproxEqual(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if gomath.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// IsAffine reports whether the bottom row is (0, 0, 0, 1).
func (t Transform) IsAffine() bool {
	return t[3] == 0 && t[7] == 0 && t[11] == 0 && t[15] == 1
}

// String formats the matrix row by row.
func (t Transform) String() string {
	return fmt.Sprintf("[% .4f % .4f % .4f % .4f; % .4f % .4f % .4f % .4f; % .4f % .4f % .4f % .4f]",
		t[0], t[4], t[8], t[12],
		t[1], t[5], t[9], t[13],
		t[2], t[6], t[10], t[14])
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			return false
		}
	}
	return true
}

package viewer

import "github.com/go-gl/mathgl/mgl32"

const (
	fovY      = 45
	nearPlane = 0.1
	farPlane  = 500
)

// camera looks from eye at the origin with Y up.
type camera struct {
	base   mgl32.Vec3 // configured eye
	eye    mgl32.Vec3
	aspect float32
}

func newCamera(eye mgl32.Vec3) camera {
	if eye.Len() == 0 {
		eye = mgl32.Vec3{3, 5, -10}
	}
	return camera{base: eye, eye: eye, aspect: 16.0 / 9.0}
}

// fit moves the eye along its direction so a sphere of radius r around the
// origin fills the vertical field of view with some margin. The configured
// eye is a lower bound on distance.
func (c *camera) fit(r float32) {
	if r <= 0 {
		c.eye = c.base
		return
	}
	want := 2.2 * r / float32(mgl32.DegToRad(fovY))
	if want < c.base.Len() {
		c.eye = c.base
		return
	}
	c.eye = c.base.Normalize().Mul(want)
}

func (c *camera) setAspect(width, height int) {
	if width > 0 && height > 0 {
		c.aspect = float32(width) / float32(height)
	}
}

func (c *camera) viewProjection() mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(fovY), c.aspect, nearPlane, farPlane)
	view := mgl32.LookAtV(c.eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

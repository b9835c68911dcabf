package math

import gomath "math"

// Lerp maps x from [x0, x1] onto [y0, y1]. It does not clamp.
func Lerp(x, x0, x1, y0, y1 float64) float64 {
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * gomath.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / gomath.Pi
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	return finite(vs...)
}

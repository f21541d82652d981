package geom

import "math"

// MinDepth is the smallest denominator the projection will divide by.
const MinDepth = 0.1

// Camera is a pinhole camera looking down -Z from Distance.
type Camera struct {
	Distance    float64
	FocalLength float64
}

// Project maps a 3D point to the image plane. The depth term is clamped to
// MinDepth, so points behind the eye squash onto the plane instead of
// flipping or blowing up.
func (c Camera) Project(p Vec3) Point2 {
	d := c.Distance + p.Z
	if d < MinDepth || math.IsNaN(d) {
		d = MinDepth
	}
	return Point2{c.FocalLength * p.X / d, c.FocalLength * p.Y / d}
}

// Viewport converts scene-plane coordinates into pixel coordinates centered
// in a w x h surface with y pointing down.
func Viewport(p Point2, w, h, scale float64) (float64, float64) {
	return w/2 + p.X*scale, h/2 - p.Y*scale
}

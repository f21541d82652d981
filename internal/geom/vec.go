package geom

import "math"

const TwoPi = 2 * math.Pi

type Vec3 struct {
	X, Y, Z float64
}

var (
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Normalize returns v scaled to unit length. Degenerate or non-finite
// vectors come back as UnitZ so callers never carry a zero axis.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 || math.IsNaN(l) || math.IsInf(l, 0) {
		return UnitZ
	}
	return v.Scale(1 / l)
}

// Point2 is a projected screen-space point.
type Point2 struct {
	X, Y float64
}

// Wrap maps an angle into [0, 2π).
func Wrap(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// Mod of a tiny negative number can round up to exactly 2π.
	if a >= TwoPi {
		a = 0
	}
	return a
}

// AngleDist is the shortest circular distance between two angles.
func AngleDist(a, b float64) float64 {
	d := math.Abs(Wrap(a) - Wrap(b))
	return math.Min(d, TwoPi-d)
}

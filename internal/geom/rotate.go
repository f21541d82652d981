package geom

import "math"

// Rodrigues rotates p by angle about the unit vector axis.
func Rodrigues(p, axis Vec3, angle float64) Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	// v cosθ + (k × v) sinθ + k (k·v)(1 - cosθ)
	return p.Scale(c).
		Add(axis.Cross(p).Scale(s)).
		Add(axis.Scale(axis.Dot(p) * (1 - c)))
}

func RotX(p Vec3, a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{p.X, p.Y*c - p.Z*s, p.Y*s + p.Z*c}
}

func RotY(p Vec3, a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{p.X*c + p.Z*s, p.Y, -p.X*s + p.Z*c}
}

func RotZ(p Vec3, a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{p.X*c - p.Y*s, p.X*s + p.Y*c, p.Z}
}

// EulerZXY applies a spin about Z followed by tilts about X then Y.
func EulerZXY(p Vec3, z, x, y float64) Vec3 {
	return RotY(RotX(RotZ(p, z), x), y)
}


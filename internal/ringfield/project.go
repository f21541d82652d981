package ringfield

import (
	"math"
	"sort"

	"github.com/san-kum/gyropulse/internal/geom"
)

// Path is a projected ring. Outer runs counter-clockwise and Inner clockwise,
// both closed (last point equals the first), so filling Outer+Inner with the
// even-odd rule leaves the band. Inner is nil for zero-thickness rings.
type Path struct {
	Index int
	Outer []geom.Point2
	Inner []geom.Point2
	Depth float64 // mean z after rotation, larger is further away
}

// Points returns the outer contour followed by the inner one.
func (p Path) Points() []geom.Point2 {
	out := make([]geom.Point2, 0, len(p.Outer)+len(p.Inner))
	out = append(out, p.Outer...)
	return append(out, p.Inner...)
}

// Contour returns the ring's two boundary circles in world space after
// applying its current rotation. The base circle lies in the XY plane.
func (f *Field) Contour(r Ring) (outer, inner []geom.Vec3) {
	n := f.opts.Segments
	outer = make([]geom.Vec3, 0, n+1)
	for i := 0; i <= n; i++ {
		a := geom.TwoPi * float64(i%n) / float64(n)
		outer = append(outer, f.orient(r, circlePoint(r.Radius, a)))
	}
	if r.Thickness <= 0 {
		return outer, nil
	}
	ir := r.Radius - r.Thickness
	inner = make([]geom.Vec3, 0, n+1)
	for i := n; i >= 0; i-- {
		a := geom.TwoPi * float64(i%n) / float64(n)
		inner = append(inner, f.orient(r, circlePoint(ir, a)))
	}
	return outer, inner
}

func circlePoint(radius, a float64) geom.Vec3 {
	return geom.Vec3{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
}

func (f *Field) orient(r Ring, p geom.Vec3) geom.Vec3 {
	if f.opts.Variant == VariantEuler {
		return geom.EulerZXY(p, r.Phase, r.TiltX, r.TiltY)
	}
	return geom.Rodrigues(p, r.Axis, r.Phase)
}

// ProjectRing rotates r and projects both contours through cam.
func (f *Field) ProjectRing(r Ring, cam geom.Camera) Path {
	outer, inner := f.Contour(r)
	p := Path{Outer: project(outer, cam)}
	if inner != nil {
		p.Inner = project(inner, cam)
	}
	var z float64
	for _, v := range outer {
		z += v.Z
	}
	p.Depth = z / float64(len(outer))
	return p
}

// ProjectAll projects every ring through the field camera, ordered back to
// front for painter's drawing.
func (f *Field) ProjectAll() []Path {
	paths := make([]Path, len(f.rings))
	for i, r := range f.rings {
		paths[i] = f.ProjectRing(r, f.ctl.Camera)
		paths[i].Index = i
	}
	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Depth > paths[j].Depth })
	return paths
}

func project(pts []geom.Vec3, cam geom.Camera) []geom.Point2 {
	out := make([]geom.Point2, len(pts))
	for i, p := range pts {
		out[i] = cam.Project(p)
	}
	return out
}

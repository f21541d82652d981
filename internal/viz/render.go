package viz

import (
	"math"

	"github.com/san-kum/gyropulse/internal/geom"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

// RenderOptions controls how rings land on a braille canvas.
type RenderOptions struct {
	// Zoom multiplies the fitted scale; 1 fits the outer ring to the canvas.
	Zoom float64
	Fill bool
}

// RenderField draws the field's projected rings back to front. Filled
// rings use the even-odd rule so the band between the contours is lit and
// the hole stays dark; unfilled rings draw both contours.
func RenderField(c *Canvas, f *ringfield.Field, opts RenderOptions) {
	if c == nil || f == nil {
		return
	}
	w, h := float64(c.SubWidth()), float64(c.SubHeight())
	scale := FitScale(f, w, h)
	if opts.Zoom > 0 {
		scale *= opts.Zoom
	}

	for _, p := range f.ProjectAll() {
		outer := toDots(p.Outer, w, h, scale)
		inner := toDots(p.Inner, w, h, scale)
		if opts.Fill && inner != nil {
			c.FillEvenOdd(outer, inner)
			continue
		}
		c.StrokePolyline(outer)
		c.StrokePolyline(inner)
	}
}

// FitScale maps scene units to sub-pixels so the outer ring at zero depth
// spans 90% of the shorter side. Braille cells are 2x4 dots but roughly
// 1:2 in aspect, so sub-pixels are close to square.
func FitScale(f *ringfield.Field, w, h float64) float64 {
	cam := f.Camera()
	outer := f.Options().OuterRadius
	if outer <= 0 || cam.Distance <= 0 {
		return math.Min(w, h) / 4
	}
	return 0.45 * math.Min(w, h) / (cam.FocalLength * outer / cam.Distance)
}

func toDots(pts []geom.Point2, w, h, scale float64) []Dot {
	if pts == nil {
		return nil
	}
	out := make([]Dot, len(pts))
	for i, p := range pts {
		x, y := geom.Viewport(p, w, h, scale)
		out[i] = Dot{x, y}
	}
	return out
}

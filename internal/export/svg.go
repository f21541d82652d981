package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/gyropulse/internal/analysis"
	"github.com/san-kum/gyropulse/internal/geom"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

// SVGOptions controls how a field snapshot is drawn.
type SVGOptions struct {
	Width      int
	Height     int
	Background string
	Fill       string
	// Scale maps scene units to pixels; 0 fits the outer ring to the
	// shorter side.
	Scale float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 800, Background: "#0a0a0a", Fill: "#f5f5f5"}
}

// FieldToSVG draws every ring of f as one even-odd filled path, back to
// front. Ring opacity follows the beat pulse the same way the live view
// brightens on each beat.
func FieldToSVG(w io.Writer, f *ringfield.Field, opts SVGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid svg size %dx%d", opts.Width, opts.Height)
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = fitScale(f, float64(opts.Width), float64(opts.Height))
	}
	opacity := 0.55 + 0.45*f.BeatPulse()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s" fill-rule="evenodd" stroke="none">
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.Fill)

	for _, p := range f.ProjectAll() {
		sb.WriteString(`<path data-ring="`)
		fmt.Fprintf(&sb, `%d" fill-opacity="%.3f" d="`, p.Index, opacity)
		writeContour(&sb, p.Outer, float64(opts.Width), float64(opts.Height), scale)
		if p.Inner != nil {
			sb.WriteByte(' ')
			writeContour(&sb, p.Inner, float64(opts.Width), float64(opts.Height), scale)
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeContour(sb *strings.Builder, pts []geom.Point2, w, h, scale float64) {
	for i, p := range pts {
		x, y := geom.Viewport(p, w, h, scale)
		if i == 0 {
			fmt.Fprintf(sb, "M%.2f,%.2f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.2f,%.2f", x, y)
		}
	}
	sb.WriteString(" Z")
}

// fitScale leaves a 10% margin around the largest ring at zero depth.
func fitScale(f *ringfield.Field, w, h float64) float64 {
	cam := f.Camera()
	outer := f.Options().OuterRadius
	if outer <= 0 || cam.Distance <= 0 {
		return math.Min(w, h) / 4
	}
	extent := cam.FocalLength * outer / cam.Distance
	return 0.45 * math.Min(w, h) / extent
}

// PortraitToSVG renders a phase portrait as a single polyline.
func PortraitToSVG(portrait *analysis.Portrait, width, height int, strokeColor string) string {
	if portrait == nil || len(portrait.Points) < 2 {
		return ""
	}
	points := portrait.Points

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

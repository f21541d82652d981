package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/gyropulse/internal/sim"
)

type Point struct{ X, Y float64 }

// Portrait holds data for a 2D plot
type Portrait struct {
	Points []Point
}

// Lissajous plots cos of ring i against sin of ring j. For integer rate
// multipliers the curve closes after one measure.
func Lissajous(res *sim.Result, i, j int) *Portrait {
	ti, tj := res.Trace(i), res.Trace(j)
	p := &Portrait{Points: make([]Point, 0, len(ti))}
	for n := range ti {
		if math.IsNaN(ti[n]) || math.IsNaN(tj[n]) {
			continue
		}
		p.Points = append(p.Points, Point{math.Cos(ti[n]), math.Sin(tj[n])})
	}
	return p
}

// StrobeSection samples the phases of rings i and j at every beat, the way
// a Poincaré section samples a flow. A locked field collapses onto a few
// points.
func StrobeSection(res *sim.Result, i, j int) *Portrait {
	p := &Portrait{}
	ti, tj := res.Trace(i), res.Trace(j)
	k := 0
	for _, bt := range res.BeatTimes {
		for k < len(res.Times) && res.Times[k] < bt {
			k++
		}
		if k >= len(res.Times) {
			break
		}
		if math.IsNaN(ti[k]) || math.IsNaN(tj[k]) {
			continue
		}
		p.Points = append(p.Points, Point{ti[k], tj[k]})
	}
	return p
}

// PortraitToASCII converts a portrait to ASCII art
func PortraitToASCII(portrait *Portrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
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

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// axes first so points draw over them
	if col := int(-minX / rangeX * float64(width-1)); minX <= 0 && col < width {
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if row := height - 1 - int(-minY/rangeY*float64(height-1)); minY <= 0 && row >= 0 {
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

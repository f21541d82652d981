package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gyropulse/internal/geom"
)

func vec(v geom.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func orbitPosition(angle, dist float32) rl.Vector3 {
	return rl.NewVector3(dist*float32(math.Sin(float64(angle))), 0, dist*float32(math.Cos(float64(angle))))
}

// ringShade brightens from the accent gray toward white on each beat.
func ringShade(pulse float64) rl.Color {
	v := uint8(180 + 75*math.Max(0, math.Min(1, pulse)))
	return rl.NewColor(v, v, v, 255)
}

// RenderRings draws both contours of every ring plus spokes between them,
// so thick rings read as bands.
func (a *App) RenderRings() {
	col := ringShade(a.Field.BeatPulse())
	for _, r := range a.Field.Rings() {
		outer, inner := a.Field.Contour(r)
		for i := 1; i < len(outer); i++ {
			rl.DrawLine3D(vec(outer[i-1]), vec(outer[i]), col)
		}
		if inner == nil {
			continue
		}
		for i := 1; i < len(inner); i++ {
			rl.DrawLine3D(vec(inner[i-1]), vec(inner[i]), col)
		}
		// inner runs the other way round, so outer[i] pairs with inner[n-i]
		n := len(outer) - 1
		for i := 0; i < n; i += 4 {
			rl.DrawLine3D(vec(outer[i]), vec(inner[n-i]), rl.ColorAlpha(col, 0.4))
		}
	}
}

// RenderAxes draws each ring's rotation axis, most useful for wobble.
func (a *App) RenderAxes() {
	for _, r := range a.Field.Rings() {
		tip := r.Axis.Scale(r.Radius * 1.2)
		rl.DrawLine3D(vec(tip.Scale(-1)), vec(tip), ColTextDim)
		rl.DrawSphere(vec(tip), 0.015, ColAccent)
	}
}

package window

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/config"
	"github.com/san-kum/gyropulse/internal/geom"
	"github.com/san-kum/gyropulse/internal/input"
	"github.com/san-kum/gyropulse/internal/logging"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

const (
	windowWidth  = 900
	windowHeight = 900
	tps          = 60
)

var (
	background = color.RGBA{R: 8, G: 8, B: 10, A: 255}
	ringColor  = color.RGBA{R: 235, G: 235, B: 240, A: 255}

	// source texture for DrawTriangles; every vertex samples its center
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

var keyNames = map[ebiten.Key]string{
	ebiten.KeySpace:          " ",
	ebiten.KeyP:              "p",
	ebiten.KeyR:              "r",
	ebiten.KeyM:              "m",
	ebiten.KeyEqual:          "=",
	ebiten.KeyNumpadAdd:      "+",
	ebiten.KeyMinus:          "-",
	ebiten.KeyNumpadSubtract: "-",
	ebiten.KeyBracketRight:   "]",
	ebiten.KeyBracketLeft:    "[",
	ebiten.KeyB:              "b",
	ebiten.KeyN:              "n",
	ebiten.KeyPeriod:         ".",
	ebiten.KeyComma:          ",",
	ebiten.KeyArrowRight:     "right",
	ebiten.KeyArrowLeft:      "left",
	ebiten.KeyArrowUp:        "up",
	ebiten.KeyArrowDown:      "down",
	ebiten.KeyA:              "a",
	ebiten.KeyZ:              "z",
}

// Game is the ebiten front end. Touch, mouse and keys all become
// input events; the field steps once per tick.
type Game struct {
	field   *ringfield.Field
	queue   *input.Queue
	tracker *input.Tracker
	sens    input.Sensitivity
	name    string
	frames  int
	vs      []ebiten.Vertex
	is      []uint16
	lastErr error
	log     *zap.Logger
	// OnTick runs after every step.
	OnTick func(ringfield.Tick)
}

func NewGame(f *ringfield.Field, name string, log *zap.Logger) *Game {
	return &Game{
		field:   f,
		queue:   input.NewQueue(),
		tracker: input.NewTracker(),
		sens:    input.DefaultSensitivity(),
		name:    name,
		log:     logging.OrNop(log),
	}
}

func (g *Game) Queue() *input.Queue { return g.queue }

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.openSceneDialog(); err != nil {
			g.lastErr = err
			g.log.Warn("open scene", zap.Error(err))
		}
	}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if name, ok := keyNames[k]; ok {
			g.queue.Push(input.Keys[name])
		}
	}

	now := time.Duration(g.frames) * time.Second / tps
	gesture := g.tracker.Frame(now, pointers())
	if _, wy := ebiten.Wheel(); wy != 0 {
		gesture.Pinch += wy * 20
	}
	g.queue.Push(g.sens.Translate(gesture)...)

	g.queue.Apply(g.field)
	tick := g.field.Step(1.0 / tps)
	if g.OnTick != nil {
		g.OnTick(tick)
	}
	g.frames++
	return nil
}

// pointers collects touches, or the left mouse button when there are none.
func pointers() []input.Pointer {
	var pts []input.Pointer
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		pts = append(pts, input.Pointer{ID: int(id), X: float64(x), Y: float64(y)})
	}
	if len(pts) == 0 && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		pts = append(pts, input.Pointer{ID: -1, X: float64(x), Y: float64(y)})
	}
	return pts
}

func (g *Game) openSceneDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Scene"),
		zenity.FileFilters{{
			Name:     "Scene",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(filename)
	if err != nil {
		return err
	}
	f, err := cfg.NewField()
	if err != nil {
		return err
	}
	g.field = f
	g.name = filename
	g.lastErr = nil
	g.log.Info("scene loaded", zap.String("path", filename), zap.Int("rings", f.Len()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale := fitScale(g.field, float64(w), float64(h))
	pulse := g.field.BeatPulse()

	alpha := float32(0.6 + 0.4*pulse)
	for _, p := range g.field.ProjectAll() {
		var path vector.Path
		addContour(&path, p.Outer, float64(w), float64(h), scale)
		if p.Inner != nil {
			addContour(&path, p.Inner, float64(w), float64(h), scale)
			g.vs, g.is = path.AppendVerticesAndIndicesForFilling(g.vs[:0], g.is[:0])
			for i := range g.vs {
				g.vs[i].SrcX, g.vs[i].SrcY = 1, 1
				g.vs[i].ColorR = float32(ringColor.R) / 255 * alpha
				g.vs[i].ColorG = float32(ringColor.G) / 255 * alpha
				g.vs[i].ColorB = float32(ringColor.B) / 255 * alpha
				g.vs[i].ColorA = alpha
			}
			screen.DrawTriangles(g.vs, g.is, whiteSubImage, &ebiten.DrawTrianglesOptions{
				FillRule:  ebiten.EvenOdd,
				AntiAlias: true,
			})
		}
		strokeContour(screen, p.Outer, float64(w), float64(h), scale, float32(1+2*pulse), alpha)
	}

	tempo := g.field.Tempo()
	hud := fmt.Sprintf("%s\nBPM %.0f  beat %d/%d  speed %.2fx  %s/%s\n[O] open scene  [SPACE] pause  tap/drag/pinch",
		g.name, tempo.BPM, g.field.BeatInMeasure()+1, tempo.BeatsPerMeasure,
		g.field.Controls().SpeedScale, g.field.Mode(), g.field.Variant())
	if g.lastErr != nil {
		hud += "\n" + g.lastErr.Error()
	}
	ebitenutil.DebugPrint(screen, hud)
}

func addContour(path *vector.Path, pts []geom.Point2, w, h, scale float64) {
	for i, p := range pts {
		x, y := geom.Viewport(p, w, h, scale)
		if i == 0 {
			path.MoveTo(float32(x), float32(y))
		} else {
			path.LineTo(float32(x), float32(y))
		}
	}
	path.Close()
}

func strokeContour(screen *ebiten.Image, pts []geom.Point2, w, h, scale float64, width, alpha float32) {
	c := color.RGBA{
		R: uint8(float32(ringColor.R) * alpha),
		G: uint8(float32(ringColor.G) * alpha),
		B: uint8(float32(ringColor.B) * alpha),
		A: uint8(255 * alpha),
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := geom.Viewport(pts[i-1], w, h, scale)
		x1, y1 := geom.Viewport(pts[i], w, h, scale)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, c, true)
	}
}

func fitScale(f *ringfield.Field, w, h float64) float64 {
	cam := f.Camera()
	outer := f.Options().OuterRadius
	if outer <= 0 || cam.Distance <= 0 {
		return min(w, h) / 4
	}
	return 0.45 * min(w, h) / (cam.FocalLength * outer / cam.Distance)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens a resizable window on f and blocks until it is closed.
func Run(f *ringfield.Field, name string, onTick func(ringfield.Tick), log *zap.Logger) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("gyropulse - " + name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)

	g := NewGame(f, name, log)
	g.OnTick = onTick
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

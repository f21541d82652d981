package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/audio"
	"github.com/san-kum/gyropulse/internal/config"
	"github.com/san-kum/gyropulse/internal/input"
	"github.com/san-kum/gyropulse/internal/logging"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColAccent  = rl.NewColor(180, 180, 180, 255) // Soft White
	ColSelect  = rl.NewColor(255, 255, 255, 255) // Bright White
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColGrid    = rl.NewColor(30, 30, 30, 255)    // Barely visible grid
)

const (
	screenW = 1280
	screenH = 720
	dt      = 1.0 / 60
)

// keyNames maps raylib keys onto the shared shortcut names in input.Keys.
var keyNames = map[int32]string{
	rl.KeySpace:        " ",
	rl.KeyP:            "p",
	rl.KeyR:            "r",
	rl.KeyM:            "m",
	rl.KeyEqual:        "=",
	rl.KeyKpAdd:        "+",
	rl.KeyMinus:        "-",
	rl.KeyKpSubtract:   "-",
	rl.KeyRightBracket: "]",
	rl.KeyLeftBracket:  "[",
	rl.KeyB:            "b",
	rl.KeyN:            "n",
	rl.KeyPeriod:       ".",
	rl.KeyComma:        ",",
	rl.KeyRight:        "right",
	rl.KeyLeft:         "left",
	rl.KeyUp:           "up",
	rl.KeyDown:         "down",
	rl.KeyA:            "a",
	rl.KeyZ:            "z",
}

type App struct {
	Field     *ringfield.Field
	Queue     *input.Queue
	SceneName string
	Camera    rl.Camera3D
	InMenu    bool
	Presets   []string
	Selected  int
	Telemetry []float64 // beat pulse history for the HUD graph
	ShowAxes  bool
	Font      rl.Font

	// orbit angle around Y, eased toward OrbitTarget
	Orbit       float32
	OrbitTarget float32

	Audio *audio.Metronome
	log   *zap.Logger
}

// initWindow initializes the Raylib window with size 1280×720, sets the target FPS to 60, and disables the default exit key.
func initWindow() {
	rl.InitWindow(screenW, screenH, "gyropulse")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp opens on the preset menu when f is nil, otherwise straight into f.
func NewApp(f *ringfield.Field, name string, withAudio bool, log *zap.Logger) *App {
	app := &App{
		Field:     f,
		Queue:     input.NewQueue(),
		SceneName: name,
		Presets:   config.ListPresets(),
		InMenu:    f == nil,
		Telemetry: make([]float64, 0, 240),
		Font:      loadFont(),
		log:       logging.OrNop(log),
	}
	app.resetCamera()

	if withAudio {
		m := audio.NewMetronome(log)
		if err := m.Start(); err != nil {
			app.log.Warn("audio disabled", zap.Error(err))
		} else {
			app.Audio = m
		}
	}
	return app
}

// Run opens a window on f and blocks until it is closed.
func Run(f *ringfield.Field, name string, withAudio bool, log *zap.Logger) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(f, name, withAudio, log)
	defer app.Close()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) Close() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
}

func (a *App) resetCamera() {
	dist := float32(4)
	if a.Field != nil {
		dist = float32(a.Field.Camera().Distance)
	}
	a.Camera = rl.NewCamera3D(
		rl.NewVector3(0, 0, dist),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
}

func (a *App) loadPreset(name string) {
	f, err := config.GetPreset(name).NewField()
	if err != nil {
		a.log.Error("load preset", zap.String("preset", name), zap.Error(err))
		return
	}
	a.Field = f
	a.SceneName = name
	a.Telemetry = a.Telemetry[:0]
	a.resetCamera()
	a.InMenu = false
}

// Update handles one frame of input and stepping. It returns false to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	if a.InMenu {
		if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
			a.Selected++
		}
		if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
			a.Selected--
		}
		if a.Selected >= len(a.Presets) {
			a.Selected = 0
		}
		if a.Selected < 0 {
			a.Selected = len(a.Presets) - 1
		}
		if rl.IsKeyPressed(rl.KeyEnter) {
			a.loadPreset(a.Presets[a.Selected])
		}
		return true
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		return true
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.ShowAxes = !a.ShowAxes
	}
	for key, name := range keyNames {
		if rl.IsKeyPressed(key) {
			a.Queue.Push(input.Keys[name])
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Queue.Push(input.Event{Kind: input.CameraDelta, Value: -0.25 * float64(wheel)})
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		a.OrbitTarget += rl.GetMouseDelta().X * 0.01
	}

	a.Queue.Apply(a.Field)
	tick := a.Field.Step(dt)
	if a.Audio != nil {
		a.Audio.Follow(tick)
	}

	a.Telemetry = append(a.Telemetry, a.Field.BeatPulse())
	if len(a.Telemetry) > 240 {
		a.Telemetry = a.Telemetry[1:]
	}

	// inertia: ease the orbit and distance toward their targets
	lerp := float32(5.0 * dt)
	a.Orbit += (a.OrbitTarget - a.Orbit) * lerp
	target := orbitPosition(a.Orbit, float32(a.Field.Camera().Distance))
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, target, lerp)
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		rl.BeginMode3D(a.Camera)
		a.RenderRings()
		if a.ShowAxes {
			a.RenderAxes()
		}
		rl.EndMode3D()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	f := a.Field
	tempo := f.Tempo()
	a.drawText("gyropulse", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.SceneName), 170, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if f.Paused() {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	lines := []string{
		fmt.Sprintf("BPM     %.0f", tempo.BPM),
		fmt.Sprintf("BEAT    %d/%d", f.BeatInMeasure()+1, tempo.BeatsPerMeasure),
		fmt.Sprintf("SPEED   %.2fx", f.Controls().SpeedScale),
		fmt.Sprintf("MODE    %s / %s", f.Mode(), f.Variant()),
		fmt.Sprintf("RINGS   %d", f.Len()),
	}
	for i, l := range lines {
		a.drawText(l, 30, 80+i*22, 16, ColText)
	}

	a.DrawTelemetry()
	a.drawText("[SPACE] PAUSE  [+/-] BPM  [ARROWS] SPEED/ZOOM  [M] MODE  [V] AXES  [ESC] MENU  [Q] QUIT", 420, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the beat pulse history as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	rectX, rectY := 30, 600
	width, height := 400, 60

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		py := float32(rectY+height) - float32(val)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText("PULSE", rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("gyropulse", 50, 50, 40, ColSelect)
	a.drawText("Select Scene", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gyropulse/internal/config"
	"github.com/san-kum/gyropulse/internal/input"
	"github.com/san-kum/gyropulse/internal/sim"
)

const scenarioYAML = `
name: demo
description: tempo change then shrink
steps:
  - preset: pulse4
    duration: 2
    events:
      - {at: 1.0, kind: set_rings, value: 2}
      - {at: 0.5, kind: set_tempo, value: 60}
    save_as: first
  - config: scene.yaml
    duration: 1
    dt: 0.01
`

const sceneYAML = `
scene:
  rings: 3
tempo:
  bpm: 90
`

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scene.yaml"), []byte(sceneYAML), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

type memSaver struct{ names []string }

func (m *memSaver) Save(name string, cfg *config.Config, res *sim.Result) (string, error) {
	m.names = append(m.names, name)
	return fmt.Sprintf("run-%d", len(m.names)), nil
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	script, err := sc.Steps[0].Script()
	if err != nil {
		t.Fatal(err)
	}
	if len(script) != 2 || script[0].At != 0.5 || script[0].Event.Kind != input.SetTempo {
		t.Errorf("script not sorted: %+v", script)
	}
}

func TestScript_UnknownKind(t *testing.T) {
	step := ScenarioStep{Events: []EventSpec{{At: 1, Kind: "explode"}}}
	if _, err := step.Script(); err == nil {
		t.Error("expected error for unknown event kind")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}
	saver := &memSaver{}
	results, err := RunScenario(context.Background(), sc, saver, nil)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Name != "first" || first.RunID != "run-1" {
		t.Errorf("first step = %+v", first)
	}
	final := first.Result.Phases[len(first.Result.Phases)-1]
	if len(final) != 2 {
		t.Errorf("expected 2 rings after scripted shrink, got %d", len(final))
	}
	if bpm := first.Result.BPM[len(first.Result.BPM)-1]; bpm != 60 {
		t.Errorf("bpm = %v", bpm)
	}

	second := results[1]
	if second.Name != "demo-step2" {
		t.Errorf("default name = %q", second.Name)
	}
	if second.Config.Tempo.BPM != 90 || len(second.Result.Phases[0]) != 3 {
		t.Errorf("scene file not applied: %+v", second.Config.Tempo)
	}
	if second.Result.StepsTaken != 100 {
		t.Errorf("steps = %d", second.Result.StepsTaken)
	}
	if _, ok := second.Result.Metrics["alignment_error"]; !ok {
		t.Error("standard metrics missing")
	}
	if len(saver.names) != 2 {
		t.Errorf("saved %v", saver.names)
	}
}

func TestRunScenario_BadPreset(t *testing.T) {
	sc := &Scenario{Name: "x", Steps: []ScenarioStep{{Preset: "nope"}}}
	if _, err := RunScenario(context.Background(), sc, nil, nil); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("pulse4")
	base.Duration = 4.01
	base.Dt = 0.005
	results, err := RunSweep(context.Background(), &TempoSweep{Base: base, MinBPM: 60, MaxBPM: 120, NumSteps: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		bpm   float64
		beats int
	}{{60, 4}, {90, 6}, {120, 8}}
	for i, w := range want {
		r := results[i]
		if r.BPM != w.bpm || r.Beats != w.beats {
			t.Errorf("sweep %d = %+v, want bpm %v beats %d", i, r, w.bpm, w.beats)
		}
		if r.AlignmentError > 1e-6 {
			t.Errorf("sweep %d alignment error %v", i, r.AlignmentError)
		}
	}
	if _, err := RunSweep(context.Background(), &TempoSweep{Base: base}); err == nil {
		t.Error("expected error for zero steps")
	}
}

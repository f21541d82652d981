package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gyropulse/internal/config"
	"github.com/san-kum/gyropulse/internal/input"
	"github.com/san-kum/gyropulse/internal/logging"
	"github.com/san-kum/gyropulse/internal/metrics"
	"github.com/san-kum/gyropulse/internal/ringfield"
	"github.com/san-kum/gyropulse/internal/sim"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep is one run: a scene, a duration and timed input events
type ScenarioStep struct {
	Preset   string      `yaml:"preset"`
	Config   string      `yaml:"config"` // scene file, relative to the scenario
	Duration float64     `yaml:"duration"`
	Dt       float64     `yaml:"dt"`
	Events   []EventSpec `yaml:"events"`
	SaveAs   string      `yaml:"save_as"`
}

// EventSpec is an input event at a point in the step's run time
type EventSpec struct {
	At    float64 `yaml:"at"`
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
}

// Saver persists a finished step. storage.Store implements it.
type Saver interface {
	Save(name string, cfg *config.Config, res *sim.Result) (string, error)
}

type StepResult struct {
	Index  int
	Name   string
	Config *config.Config
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// Script converts the step's events into a time-ordered runner script.
func (s ScenarioStep) Script() ([]sim.TimedEvent, error) {
	out := make([]sim.TimedEvent, 0, len(s.Events))
	for i, e := range s.Events {
		kind, err := input.ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		out = append(out, sim.TimedEvent{At: e.At, Event: input.Event{Kind: kind, Value: e.Value}})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out, nil
}

func (sc *Scenario) stepConfig(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) && sc.dir != "" {
			path = filepath.Join(sc.dir, path)
		}
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	case step.Preset != "":
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", step.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	return cfg, nil
}

// RunScenario executes all steps in order. saver may be nil.
func RunScenario(ctx context.Context, scenario *Scenario, saver Saver, log *zap.Logger) ([]StepResult, error) {
	log = logging.OrNop(log)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := scenario.stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		for _, note := range cfg.Validate() {
			log.Warn("scene value clamped", zap.Int("step", i+1), zap.String("detail", note))
		}
		field, err := cfg.NewField()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		script, err := step.Script()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		runner := sim.New(field, log)
		for _, m := range metrics.Standard() {
			runner.AddMetric(m)
		}
		if err := runner.SetScript(script); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-step%d", scenario.Name, i+1)
		}
		log.Info("running scenario step",
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("name", name))

		res, err := runner.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Index: i, Name: name, Config: cfg, Result: res}
		if saver != nil {
			id, err := saver.Save(name, cfg, res)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// TempoSweep runs the same scene across a range of tempos
type TempoSweep struct {
	Base     *config.Config
	MinBPM   float64
	MaxBPM   float64
	NumSteps int
}

// SweepResult holds the metrics of one tempo in a sweep
type SweepResult struct {
	BPM            float64
	Beats          int
	Downbeats      int
	AlignmentError float64
	PulseDuty      float64
}

// RunSweep executes a tempo sweep, one goroutine per tempo.
func RunSweep(ctx context.Context, sweep *TempoSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	base, err := sweep.Base.Options()
	if err != nil {
		return nil, err
	}

	bpms := make([]float64, sweep.NumSteps)
	opts := make([]ringfield.Options, sweep.NumSteps)
	for i := range bpms {
		bpms[i] = sweep.MinBPM
		if sweep.NumSteps > 1 {
			bpms[i] += float64(i) * (sweep.MaxBPM - sweep.MinBPM) / float64(sweep.NumSteps-1)
		}
		opts[i] = base
		opts[i].BPM = bpms[i]
	}

	runs, err := sim.Sweep(ctx, opts, sim.Config{Dt: sweep.Base.Dt, Duration: sweep.Base.Duration}, metrics.Standard)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			BPM:            ringfield.New(opts[i]).Tempo().BPM,
			Beats:          len(r.BeatTimes),
			Downbeats:      len(r.DownbeatTimes),
			AlignmentError: r.Metrics["alignment_error"],
			PulseDuty:      r.Metrics["pulse_duty"],
		}
	}
	return results, nil
}

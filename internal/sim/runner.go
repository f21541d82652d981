package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/input"
	"github.com/san-kum/gyropulse/internal/logging"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

// Runner steps a ring field at a fixed rate without a display, the same
// way the interactive front ends do: drain input, step, observe.
type Runner struct {
	field     *ringfield.Field
	queue     *input.Queue
	script    []TimedEvent
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

func New(field *ringfield.Field, log *zap.Logger) *Runner {
	return &Runner{
		field:     field,
		queue:     input.NewQueue(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.OrNop(log),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }
func (r *Runner) Queue() *input.Queue    { return r.queue }
func (r *Runner) Field() *ringfield.Field {
	return r.field
}

// SetScript schedules events. They must be sorted by time.
func (r *Runner) SetScript(events []TimedEvent) error {
	for i := 1; i < len(events); i++ {
		if events[i].At < events[i-1].At {
			return fmt.Errorf("%w: event %d at %.3fs after %.3fs", ErrUnsortedScript, i, events[i].At, events[i-1].At)
		}
	}
	r.script = append([]TimedEvent(nil), events...)
	return nil
}

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Times:   make([]float64, 0, steps/every+1),
		Phases:  make([][]float64, 0, steps/every+1),
		Pulses:  make([]float64, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	r.log.Debug("run started",
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt),
		zap.Int("rings", r.field.Len()),
		zap.Float64("bpm", r.field.Tempo().BPM))

	r.record(result, 0)
	next := 0
	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, &StepError{Step: i, Time: t, Wrapped: ctx.Err()}
		default:
		}

		for next < len(r.script) && r.script[next].At <= t+1e-9 {
			r.queue.Push(r.script[next].Event)
			result.Applied = append(result.Applied, r.script[next])
			r.log.Debug("scripted event", zap.Float64("t", t), zap.Stringer("event", r.script[next].Event))
			next++
		}
		r.queue.Apply(r.field)

		tick := r.field.Step(cfg.Dt)
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		if tick.Beats > 0 {
			result.BeatTimes = append(result.BeatTimes, t-r.field.SinceBeat())
		}
		if tick.Downbeats > 0 {
			result.DownbeatTimes = append(result.DownbeatTimes, t-r.field.SinceDownbeat())
		}
		for _, m := range r.metrics {
			m.Observe(r.field, tick, t)
		}
		for _, o := range r.observers {
			o.OnStep(r.field, tick, t)
		}
		if (i+1)%every == 0 {
			r.record(result, t)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	r.log.Debug("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Int("beats", r.field.Beats()),
		zap.Int("downbeats", r.field.Downbeats()))
	return result, nil
}

func (r *Runner) record(res *Result, t float64) {
	rings := r.field.Rings()
	row := make([]float64, len(rings))
	for i, ring := range rings {
		row[i] = ring.Phase
	}
	res.Times = append(res.Times, t)
	res.Phases = append(res.Phases, row)
	res.Pulses = append(res.Pulses, r.field.BeatPulse())
	res.MeasurePulses = append(res.MeasurePulses, r.field.MeasurePulse())
	res.BPM = append(res.BPM, r.field.Tempo().BPM)
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Duration < cfg.Dt {
		return fmt.Errorf("%w: duration %f shorter than one step", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

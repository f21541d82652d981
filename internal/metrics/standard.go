package metrics

import "github.com/san-kum/gyropulse/internal/sim"

// Standard returns a fresh set of the metrics recorded for every stored run.
func Standard() []sim.Metric {
	return []sim.Metric{NewBeatCount(), NewAlignment(), NewAxisDrift(), NewPulseDuty()}
}

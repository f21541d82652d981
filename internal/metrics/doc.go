// Package metrics provides run metrics for sim.Runner.
package metrics

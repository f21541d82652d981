package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gyropulse/internal/ringfield"
)

// Sweep runs one independent field per option set concurrently and returns
// the results in input order. newMetrics is called once per run so metric
// state is never shared between goroutines.
func Sweep(ctx context.Context, opts []ringfield.Options, cfg Config, newMetrics func() []Metric) ([]*Result, error) {
	results := make([]*Result, len(opts))
	errs := make([]error, len(opts))

	var wg sync.WaitGroup
	for i := range opts {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			r := New(ringfield.New(opts[idx]), nil)
			if newMetrics != nil {
				for _, m := range newMetrics() {
					r.AddMetric(m)
				}
			}
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

package recon

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Result is one target's collection.
type Result struct {
	Target string
	Raw    Raw
	Err    error
}

type job struct {
	index  int
	target string
}

// RunAll collects every target on a pool of workers. Results keep the
// order of targets.
func (o *Orchestrator) RunAll(ctx context.Context, targets []string, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(targets))
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(workers, func(p interface{}) {
		defer wg.Done()
		j := p.(job)
		raw, err := o.Collect(ctx, j.target)
		if err != nil {
			o.log.Warn("recon incomplete", zap.String("target", j.target), zap.Error(err))
		}
		results[j.index] = Result{Target: j.target, Raw: raw, Err: err}
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create worker pool")
	}
	defer pool.Release()

	for i, t := range targets {
		wg.Add(1)
		if err := pool.Invoke(job{index: i, target: t}); err != nil {
			wg.Done()
			results[i] = Result{Target: t, Err: errors.Wrap(err, "could not schedule target")}
		}
	}
	wg.Wait()
	return results, nil
}

package ring

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Aman-3O/Esha-Suprise/engine/loader"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// loadResult is the outcome of one batch load.
type loadResult struct {
	key string
	tex *loader.Texture
	err error
}

// runBatch requests every key on a worker pool and emits arrivals in completion order.
// Returns false if ctx was cancelled.
func (f *feeder) runBatch(ctx context.Context, events chan<- Event) bool {
	n := len(f.keys)
	if n == 0 {
		return true
	}
	share := f.target / n

	workers := f.workers
	if workers <= 0 {
		workers = n
	}
	pool := worker.NewDynamicWorkerPool(workers, n, time.Second)
	defer pool.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	results := make(chan loadResult, n)
	for i, key := range f.keys {
		wg.Add(1)
		k := key
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: k,
			Do: func() (any, error) {
				defer wg.Done()
				tex, err := f.source.Load(runCtx, k)
				results <- loadResult{key: k, tex: tex, err: err}
				return tex, err
			},
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	if !emit(ctx, events, Event{Kind: EventProgress, Percent: 0}) {
		return false
	}

	done := 0
	for {
		select {
		case <-ctx.Done():
			return false
		case r, ok := <-results:
			if !ok {
				return true
			}
			done++
			if r.err != nil {
				if ctx.Err() != nil {
					return false
				}
				log.Printf("[Loader] could not load %s: %v", r.key, r.err)
			} else if share > 0 {
				if !emit(ctx, events, Event{Kind: EventArrival, Texture: r.tex, Count: share}) {
					return false
				}
			}
			if done < n {
				if !emit(ctx, events, Event{Kind: EventProgress, Percent: Percent(done, n)}) {
					return false
				}
			}
		}
	}
}

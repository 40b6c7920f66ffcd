package match

import (
	"context"
	"sync"

	"contactsheet/internal/tags"
)

// ResolveAll resolves a batch of tags concurrently. Tags are independent
// and the directory is read-only, so workers need no coordination beyond
// the index feed; results land in preallocated slots so output order
// always equals input order. A worker count below one resolves serially.
func (r *Resolver) ResolveAll(ctx context.Context, batch []tags.Tag, workers int) []Assignment {
	out := make([]Assignment, len(batch))
	for i := range batch {
		out[i] = Assignment{Tag: batch[i]}
	}
	if len(batch) == 0 {
		return out
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(batch) {
		workers = len(batch)
	}
	if workers == 1 {
		for i := range batch {
			if ctx.Err() != nil {
				break
			}
			out[i] = r.Resolve(batch[i])
		}
		return out
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				out[i] = r.Resolve(batch[i])
			}
		}()
	}

	for i := range batch {
		select {
		case indices <- i:
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return out
		}
	}
	close(indices)
	wg.Wait()
	return out
}

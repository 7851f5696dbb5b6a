package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"github.com/kova98/nearmatch.api/data"
	"github.com/kova98/nearmatch.api/matchers"
	"github.com/kova98/nearmatch.api/metrics"
)

// Searcher runs the matcher over stored entries. Every search it performs
// requires matches to start and end on word boundaries.
type Searcher struct {
	pool     *ants.Pool
	recorder *metrics.Recorder
	opts     matchers.Options
}

type EntryResult struct {
	EntryID int `json:"entryId"`
	matchers.Result
}

func NewSearcher(workers int, recorder *metrics.Recorder) (*Searcher, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "create search pool")
	}

	return &Searcher{
		pool:     pool,
		recorder: recorder,
		opts: matchers.Options{
			MustStartOnWordBoundary: true,
			MustEndOnWordBoundary:   true,
		},
	}, nil
}

// Search scans a single text on the calling goroutine.
func (s *Searcher) Search(text, term string) matchers.Result {
	start := time.Now()
	res := matchers.Search(text, term, s.opts)
	if s.recorder != nil {
		s.recorder.ObserveScan(res, time.Since(start))
	}
	return res
}

// SearchEntries scans every entry for term in parallel and returns the
// results ordered by entry ID. It stops submitting work once ctx is done
// but always waits for scans already running.
func (s *Searcher) SearchEntries(ctx context.Context, entries []data.Entry, term string) ([]EntryResult, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]EntryResult, 0, len(entries))
		err     error
	)

	for _, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Wrap(ctxErr, "search entries")
			break
		}

		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			res := s.Search(entry.Text, term)

			mu.Lock()
			results = append(results, EntryResult{EntryID: entry.ID, Result: res})
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			err = errors.Wrapf(submitErr, "search entries: submit entry %d", entry.ID)
			break
		}
	}

	wg.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].EntryID < results[j].EntryID
	})

	return results, nil
}

func (s *Searcher) Release() {
	s.pool.Release()
}

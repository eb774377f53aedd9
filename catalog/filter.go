package catalog

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"

	"github.com/pkgsel/pkgsel/query"
)

// minChunk is the smallest number of records worth a separate task
const minChunk = 256

// Filter returns records matching the query, keeping list order
//
// nil query (empty query string) selects everything. With workers > 1 records are
// evaluated by a pool of goroutines.
func Filter(list *RecordList, q query.Node, ev *Evaluator, workers int) (*RecordList, error) {
	if q == nil {
		return list, nil
	}

	matched := make([]bool, list.Len())
	records := list.Records()

	if workers <= 1 || len(records) <= minChunk {
		for i, r := range records {
			matched[i] = ev.Evaluate(r, q)
		}
	} else if err := filterParallel(records, matched, q, ev, workers); err != nil {
		return nil, err
	}

	result := NewRecordList()
	for i, r := range records {
		if matched[i] {
			result.index[r.Name()] = len(result.records)
			result.records = append(result.records, r)
		}
	}

	return result, nil
}

func filterParallel(records []Record, matched []bool, q query.Node, ev *Evaluator, workers int) error {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return errors.Wrap(err, "unable to start evaluation pool")
	}
	defer pool.Release()

	chunk := (len(records) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	var (
		wg          sync.WaitGroup
		failureOnce sync.Once
		failure     interface{}
	)

	for start := 0; start < len(records); start += chunk {
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}

		wg.Add(1)
		lo, hi := start, end
		err = pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failureOnce.Do(func() { failure = r })
				}
			}()

			for i := lo; i < hi; i++ {
				matched[i] = ev.Evaluate(records[i], q)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return errors.Wrap(err, "unable to schedule evaluation")
		}
	}

	wg.Wait()

	// evaluation faults are programming errors, re-raise them in the caller
	if failure != nil {
		panic(failure)
	}

	return nil
}

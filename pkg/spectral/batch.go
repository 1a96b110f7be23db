package spectral

import (
	"runtime"
	"sync"

	"hyperspec/pkg/cube"
)

// ExtractBatch runs Extract for every region over a shared cube using a
// bounded worker pool and returns the spectra in input order. The cube is
// only read, so the extractions are independent and their results are
// identical to sequential Extract calls. workers <= 0 uses one worker per
// CPU core.
func ExtractBatch[T cube.Sample](c *cube.Cube[T], regions []Polygon, workers int) ([]Spectrum, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	results := make([]Spectrum, len(regions))
	if len(regions) == 0 {
		return results, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(regions) {
		workers = len(regions)
	}

	// Each worker writes disjoint result slots, so no locking is needed
	errs := make([]error, len(regions))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx], errs[idx] = Extract(c, regions[idx])
			}
		}()
	}

	for idx := range regions {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Package stats derives fragment-length statistics from a bounded sample of
// observed distances and writes them to the side-file format the assembler's
// output directory carries alongside its FASTA.
package stats

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kmnip/rnabloom/internal"
)

// FragmentStats summarizes a sample of fragment lengths by five figures.
type FragmentStats struct {
	Min, Q1, Median, Q3, Max int
}

// Sampler draws a uniform random sample of up to capacity observations from
// an arbitrarily long stream, using reservoir sampling (Algorithm R): every
// observation past the first capacity has an equal chance of displacing one
// already held, so the final sample is representative of the whole stream
// rather than just its earliest arrivals. Once closed, it computes
// FragmentStats exactly once and broadcasts completion by closing its ready
// channel — any number of goroutines can wait on Ready or block in Stats.
type Sampler struct {
	capacity int
	values   chan int
	ready    chan struct{}
	once     sync.Once
	rng      *internal.Rand

	mu     sync.Mutex
	result FragmentStats
}

// NewSampler starts a Sampler with room for capacity observations.
func NewSampler(capacity int) *Sampler {
	s := &Sampler{
		capacity: capacity,
		values:   make(chan int, capacity),
		ready:    make(chan struct{}),
		rng:      internal.NewRand(time.Now().UnixNano()),
	}
	go s.run()
	return s
}

func (s *Sampler) run() {
	reservoir := make([]float64, 0, s.capacity)
	seen := 0
	for v := range s.values {
		if len(reservoir) < s.capacity {
			reservoir = append(reservoir, float64(v))
		} else if j := s.rng.Intn(seen + 1); j < s.capacity {
			reservoir[j] = float64(v)
		}
		seen++
	}
	s.finalize(reservoir)
}

func (s *Sampler) finalize(lengths []float64) {
	s.once.Do(func() {
		sort.Float64s(lengths)
		result := quantiles(lengths)
		s.mu.Lock()
		s.result = result
		s.mu.Unlock()
		close(s.ready)
	})
}

// Observe records one fragment-length observation, feeding the reservoir.
// If the consuming goroutine is falling behind and the internal buffer is
// full, the observation is dropped without blocking the caller.
func (s *Sampler) Observe(length int) {
	select {
	case s.values <- length:
	default:
	}
}

// Close signals that no further observations are coming, letting the
// reservoir finalize over whatever it collected. Safe to call from only one
// goroutine; Observe must not be called concurrently with Close.
func (s *Sampler) Close() {
	close(s.values)
}

// Ready returns a channel closed exactly once, when Close has drained and
// the reservoir has been finalized.
func (s *Sampler) Ready() <-chan struct{} {
	return s.ready
}

// Stats blocks until the sample is finalized and returns the result.
func (s *Sampler) Stats() FragmentStats {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func quantiles(sorted []float64) FragmentStats {
	if len(sorted) == 0 {
		return FragmentStats{}
	}
	return FragmentStats{
		Min:    int(sorted[0]),
		Q1:     int(stat.Quantile(0.25, stat.Empirical, sorted, nil)),
		Median: int(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		Q3:     int(stat.Quantile(0.75, stat.Empirical, sorted, nil)),
		Max:    int(sorted[len(sorted)-1]),
	}
}

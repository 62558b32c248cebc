package populate

import "runtime"

// Mode selects how a k-mer not yet present in the graph is treated.
type Mode int

const (
	// Add inserts every k-mer unconditionally, growing the graph's k-mer
	// set. This is the mode used to build a graph from its primary dataset.
	Add Mode = iota
	// AddIfPresent only bumps the CBF count of k-mers already present in
	// the DBG, leaving the k-mer set unchanged. This is the mode used to
	// merge coverage from a secondary dataset into an existing graph.
	AddIfPresent
)

// Config carries the population pipeline's tunables.
type Config struct {
	// Workers bounds the number of goroutines hashing and inserting
	// concurrently. Zero selects runtime.GOMAXPROCS(0).
	Workers int
	// BatchSize is the number of records fetched per pipeline batch. Zero
	// selects a default.
	BatchSize int
	// MinQuality masks bases whose FASTQ quality score falls below this
	// threshold to 'N' before hashing, removing them from every k-mer that
	// would otherwise cover them. Zero disables masking.
	MinQuality byte
	Mode       Mode
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) batchSize() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return defaultBatchSize
}

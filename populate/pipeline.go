package populate

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/exascience/pargo/pipeline"
	"github.com/google/uuid"

	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
	"github.com/kmnip/rnabloom/internal"
)

// Stats summarizes one Run call across every source it consumed.
type Stats struct {
	RunID             uuid.UUID
	SourcesProcessed  int
	SourcesFailed     int
	RecordsProcessed  int64
	KmersInserted     int64
	FragPairsInserted int64
	ReadPairsInserted int64
}

type counters struct {
	records   int64
	kmers     int64
	fragPairs int64
	readPairs int64
}

// Run drains every source in turn through a pargo pipeline that hashes each
// record's k-mers, and its graph's configured distance-d paired k-mers, and
// inserts them per cfg.Mode. Sources are drained one at a time; within a
// source, records are hashed and inserted concurrently across cfg.Workers
// goroutines, with no ordering guarantee between them, since filter updates
// are commutative.
//
// ctx is checked at the top of every batch fetch. Canceling it stops
// fetching new batches from whichever source is currently running; that
// source's error is logged and counted and Run proceeds to (and immediately abandons)
// any sources still queued behind it, so partial progress is never lost but
// the call returns promptly.
func Run(ctx context.Context, g *graph.Graph, sources []Source, cfg Config) (Stats, error) {
	if g == nil {
		return Stats{}, ErrConfiguration
	}
	stats := Stats{RunID: uuid.New()}
	var c counters

	canceled := false
	for i, src := range sources {
		if canceled || ctx.Err() != nil {
			stats.SourcesFailed++
			canceled = true
			continue
		}
		if err := runOne(ctx, g, src, cfg, &c); err != nil {
			log.Printf("populate: source %d of %d failed: %v", i+1, len(sources), err)
			stats.SourcesFailed++
			continue
		}
		stats.SourcesProcessed++
	}

	stats.RecordsProcessed = atomic.LoadInt64(&c.records)
	stats.KmersInserted = atomic.LoadInt64(&c.kmers)
	stats.FragPairsInserted = atomic.LoadInt64(&c.fragPairs)
	stats.ReadPairsInserted = atomic.LoadInt64(&c.readPairs)
	return stats, ctx.Err()
}

func runOne(ctx context.Context, g *graph.Graph, src Source, cfg Config, c *counters) error {
	bsrc := newBatchSource(ctx, src, cfg.batchSize())

	var p pipeline.Pipeline
	p.Source(bsrc)
	p.Add(pipeline.LimitedPar(cfg.workers(), insertFilter(g, cfg, c)))
	p.Run()

	if err := bsrc.Err(); err != nil {
		return err
	}
	return p.Err()
}

// insertFilter builds the per-worker hashing stage. It is invoked once per
// parallel worker by LimitedPar, so the hash.Iterator and hash.PairedIterator
// state closed over by the returned receiver belongs to that worker alone.
func insertFilter(g *graph.Graph, cfg Config, c *counters) pipeline.Filter {
	return func(p *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (pipeline.Receiver, pipeline.Finalizer) {
		fam := g.Family()
		gc := g.Config()
		it := hash.NewIterator(fam)

		var fragIt, readIt *hash.PairedIterator
		if gc.DFrag > 0 {
			fragIt = hash.NewPairedIterator(fam)
		}
		if gc.DRead > 0 {
			readIt = hash.NewPairedIterator(fam)
		}

		receiver := func(_ int, data interface{}) interface{} {
			batch := data.(recordBatch)
			var kmers, fragPairs, readPairs int64
			for i, seq := range batch.seqs {
				masked, pooled := maskLowQuality(seq, batch.quals[i], cfg.MinQuality)

				walkKmers(fam, it, masked, func(h uint64) {
					if cfg.Mode == AddIfPresent {
						g.AddKmerIfPresent(h)
					} else {
						g.AddKmer(h)
					}
					kmers++
				})
				if fragIt != nil {
					walkPairs(fam, fragIt, masked, gc.DFrag, func(head, tail uint64) {
						g.AddPairedFrag(head, tail)
						fragPairs++
					})
				}
				if readIt != nil {
					walkPairs(fam, readIt, masked, gc.DRead, func(head, tail uint64) {
						g.AddPairedRead(head, tail)
						readPairs++
					})
				}
				if pooled {
					internal.ReleaseByteBuffer(masked)
				}
			}
			atomic.AddInt64(&c.records, int64(len(batch.seqs)))
			atomic.AddInt64(&c.kmers, kmers)
			atomic.AddInt64(&c.fragPairs, fragPairs)
			atomic.AddInt64(&c.readPairs, readPairs)
			return nil
		}
		return receiver, nil
	}
}

// maskLowQuality replaces bases whose quality falls below minQuality with
// 'N', so walkKmers/walkPairs exclude them from every k-mer that would
// otherwise cover them. It returns seq unmodified when there is nothing to
// mask, avoiding a copy on the common FASTA/no-threshold path. When pooled is
// true the returned slice was drawn from internal's byte buffer pool and the
// caller must return it with internal.ReleaseByteBuffer once done.
func maskLowQuality(seq, qual []byte, minQuality byte) (masked []byte, pooled bool) {
	if minQuality == 0 || qual == nil {
		return seq, false
	}
	buf := append(internal.ReserveByteBuffer(), seq...)
	for i, q := range qual {
		if q < minQuality {
			buf[i] = 'N'
		}
	}
	return buf, true
}

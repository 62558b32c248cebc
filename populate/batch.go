package populate

import (
	"context"

	"github.com/exascience/pargo/pipeline"
)

const defaultBatchSize = 256

// recordBatch is the unit of work pushed through the pipeline: a slice of
// records fetched together, mirroring the [][]byte batches InputFile hands
// to BytesToAlignment.
type recordBatch struct {
	seqs  [][]byte
	quals [][]byte
}

// batchSource adapts a Source (record-at-a-time) into a pargo
// pipeline.Source (batch-at-a-time). It fetches until batchSize records have
// been read or the wrapped Source is exhausted.
type batchSource struct {
	src         Source
	batchSize   int
	callerCtx   context.Context
	pipelineCtx context.Context
	done        bool
	err         error
	pending     recordBatch
}

// newBatchSource binds callerCtx as the cancellation signal Fetch honors on
// every call. pargo's own Pipeline.Run hands Prepare a context of its own
// (typically context.Background()), which does not observe the caller's
// cancellation, so that one is only used as a secondary source of Done().
func newBatchSource(callerCtx context.Context, src Source, batchSize int) *batchSource {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &batchSource{src: src, batchSize: batchSize, callerCtx: callerCtx, pipelineCtx: context.Background()}
}

// Err implements the method of the pipeline.Source interface.
func (b *batchSource) Err() error { return b.err }

// Prepare implements the method of the pipeline.Source interface. The
// pipeline-supplied context is retained alongside the caller's own, since
// either being done should stop Fetch from pulling further batches.
func (b *batchSource) Prepare(ctx context.Context) int {
	b.pipelineCtx = ctx
	return -1
}

// Fetch implements the method of the pipeline.Source interface.
func (b *batchSource) Fetch(size int) int {
	if b.done {
		return 0
	}
	select {
	case <-b.callerCtx.Done():
		b.done = true
		b.err = b.callerCtx.Err()
		return 0
	case <-b.pipelineCtx.Done():
		b.done = true
		b.err = b.pipelineCtx.Err()
		return 0
	default:
	}

	n := b.batchSize
	if size > 0 && size < n {
		n = size
	}
	seqs := make([][]byte, 0, n)
	quals := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		seq, qual, ok := b.src.Next()
		if !ok {
			b.done = true
			b.err = b.src.Err()
			break
		}
		seqs = append(seqs, seq)
		quals = append(quals, qual)
	}
	b.pending = recordBatch{seqs: seqs, quals: quals}
	return len(seqs)
}

// Data implements the method of the pipeline.Source interface.
func (b *batchSource) Data() interface{} { return b.pending }

var _ pipeline.Source = (*batchSource)(nil)

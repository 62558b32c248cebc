// Package bloom implements the Bloom filter family backing the implicit de
// Bruijn graph: a plain membership filter, a saturating counting filter, and
// a paired-keys filter built from three plain filters sharing an index.
package bloom

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
)

// blockBits is the number of bits held by a single bitset.BitSet block.
// 1<<26 bits is 8 MiB per block, small enough that even a filter sized past
// the 2^31-bit range some deployments hit is addressed as a slice of blocks
// rather than one oversized BitSet.
const blockBits = 1 << 26

type plainBlock struct {
	bs    *bitset.BitSet
	words []uint64 // aliases bs's backing store; atomic OR/test happen here
}

// PlainFilter is a block-striped Bloom filter: bit positions are routed to
// block := pos/blockBits, bit := pos%blockBits, so no single block's BitSet
// needs more than blockBits bits regardless of the filter's total size.
type PlainFilter struct {
	n      uint64 // total bits
	m      int    // hash count this filter was sized for (diagnostics only)
	blocks []*plainBlock
}

// NewPlainFilter allocates a PlainFilter of nBits total bits, sized for m
// independent hash positions per insertion.
func NewPlainFilter(nBits uint64, m int) (*PlainFilter, error) {
	if nBits == 0 || m <= 0 {
		return nil, ErrConfiguration
	}
	nBlocks := (nBits + blockBits - 1) / blockBits
	blocks := make([]*plainBlock, nBlocks)
	remaining := nBits
	for i := range blocks {
		size := uint64(blockBits)
		if remaining < size {
			size = remaining
		}
		bs := bitset.New(uint(size))
		blocks[i] = &plainBlock{bs: bs, words: bs.Bytes()}
		remaining -= size
	}
	return &PlainFilter{n: nBits, m: m, blocks: blocks}, nil
}

// N returns the total number of bits in the filter.
func (f *PlainFilter) N() uint64 { return f.n }

// M returns the hash count the filter was constructed with.
func (f *PlainFilter) M() int { return f.m }

// Add sets the bit at hash%N for every hash in hashes (typically the
// f.m-length h1+i*h2 array produced by hash.Iterator.MultiHash). Safe for
// concurrent use by multiple goroutines against the same filter.
func (f *PlainFilter) Add(hashes []uint64) {
	for _, h := range hashes {
		pos := h % f.n
		blk, bit := f.locate(pos)
		atomicSetBit(blk.words, bit)
	}
}

// Contains reports whether every position derived from hashes is set. Safe
// for concurrent use, including concurrently with Add (a Contains racing an
// in-flight Add for the same key observes either state, never a torn read).
func (f *PlainFilter) Contains(hashes []uint64) bool {
	for _, h := range hashes {
		pos := h % f.n
		blk, bit := f.locate(pos)
		if !atomicTestBit(blk.words, bit) {
			return false
		}
	}
	return true
}

func (f *PlainFilter) locate(pos uint64) (*plainBlock, uint64) {
	return f.blocks[pos/blockBits], pos % blockBits
}

// PopCount returns the number of set bits across all blocks.
func (f *PlainFilter) PopCount() uint64 {
	var total uint64
	for _, blk := range f.blocks {
		total += uint64(blk.bs.Count())
	}
	return total
}

// Health reports the filter's occupancy and an estimated false-positive
// rate, for the runtime FPR monitoring named in the population pipeline.
func (f *PlainFilter) Health() Health {
	pop := f.PopCount()
	fill := float64(pop) / float64(f.n)
	fpr := 1.0
	for i := 0; i < f.m; i++ {
		fpr *= fill
	}
	return Health{PopCount: pop, N: f.n, M: f.m, EstimatedFPR: fpr}
}

// Reset clears every bit, for callers that reset the screening filter
// between input strata rather than retaining it across a whole run.
func (f *PlainFilter) Reset() {
	for _, blk := range f.blocks {
		blk.bs.ClearAll()
	}
}

// MarshalBits packs the filter's bits into ceil(N/8) bytes, little-endian
// within each 64-bit word, in block order. This is the raw array format
// referenced by the RBGRAPH snapshot payload.
func (f *PlainFilter) MarshalBits() []byte {
	total := (f.n + 7) / 8
	buf := make([]byte, total)
	off := 0
	for _, blk := range f.blocks {
		for _, w := range blk.words {
			if off >= len(buf) {
				return buf
			}
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], w)
			off += copy(buf[off:], tmp[:])
		}
	}
	return buf
}

// UnmarshalBits restores a PlainFilter of nBits/m from data previously
// produced by MarshalBits. len(data) must equal ceil(nBits/8).
func UnmarshalBits(data []byte, nBits uint64, m int) (*PlainFilter, error) {
	if uint64(len(data)) != (nBits+7)/8 {
		return nil, ErrDimensionMismatch
	}
	f, err := NewPlainFilter(nBits, m)
	if err != nil {
		return nil, err
	}
	padded := data
	if rem := len(data) % 8; rem != 0 {
		padded = make([]byte, len(data)+(8-rem))
		copy(padded, data)
	}
	wordIdx := 0
	for _, blk := range f.blocks {
		for i := range blk.words {
			off := wordIdx * 8
			if off+8 <= len(padded) {
				blk.words[i] = binary.LittleEndian.Uint64(padded[off : off+8])
			}
			wordIdx++
		}
	}
	return f, nil
}

// Health summarizes a filter's fill state and estimated false-positive rate
// for runtime health logging. Nothing in this module resizes a filter from
// it.
type Health struct {
	PopCount     uint64
	N            uint64
	M            int
	EstimatedFPR float64
}

func atomicSetBit(words []uint64, bit uint64) {
	idx := bit / 64
	mask := uint64(1) << (bit % 64)
	addr := &words[idx]
	for {
		old := atomic.LoadUint64(addr)
		if old&mask != 0 {
			return
		}
		if atomic.CompareAndSwapUint64(addr, old, old|mask) {
			return
		}
	}
}

func atomicTestBit(words []uint64, bit uint64) bool {
	idx := bit / 64
	mask := uint64(1) << (bit % 64)
	return atomic.LoadUint64(&words[idx])&mask != 0
}

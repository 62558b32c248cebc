package bloom

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// CountingFilter is an array of 8-bit saturating counters, one per bit
// position, updated with a conservative minimum-increment rule: the m
// counters for a key are read first, and only those still equal to the
// observed minimum are bumped to minimum+1, saturating at 255. Each counter
// update is a CAS loop on the containing 32-bit word (four counters per
// word), so no per-counter mutex is needed.
type CountingFilter struct {
	n        uint64
	m        int
	counters []byte
	mapped   []byte // non-nil iff counters is backed by an mmap, for Close
}

// mmapThreshold is the counter-array size above which NewCountingFilter
// prefers an anonymous mmap over a plain make([]byte, n): past this size the
// allocator's zeroing and GC scanning cost starts to dominate for an array
// that is opaque bytes to the collector anyway.
const mmapThreshold = 1 << 30

// NewCountingFilter allocates a CountingFilter with n counters, sized for m
// hash positions per key (the same m every caller-supplied hashes slice is
// expected to have).
func NewCountingFilter(n uint64, m int) (*CountingFilter, error) {
	if n == 0 || m <= 0 {
		return nil, ErrConfiguration
	}
	allocLen := (n + 3) &^ 3 // round up to a multiple of 4 for word-aligned CAS
	if allocLen >= mmapThreshold {
		buf, err := unix.Mmap(-1, 0, int(allocLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			return nil, ErrResource
		}
		return &CountingFilter{n: n, m: m, counters: buf, mapped: buf}, nil
	}
	return &CountingFilter{n: n, m: m, counters: make([]byte, allocLen)}, nil
}

// Close releases the filter's mmap-backed storage, if any. It is a no-op for
// filters small enough to have been heap-allocated.
func (c *CountingFilter) Close() error {
	if c.mapped == nil {
		return nil
	}
	err := unix.Munmap(c.mapped)
	c.mapped = nil
	c.counters = nil
	return err
}

// N returns the number of counters.
func (c *CountingFilter) N() uint64 { return c.n }

// M returns the hash count the filter was constructed with.
func (c *CountingFilter) M() int { return c.m }

func (c *CountingFilter) wordFor(pos uint64) (*uint32, uint) {
	base := pos &^ 3
	shift := uint(pos-base) * 8
	ptr := (*uint32)(unsafe.Pointer(&c.counters[base]))
	return ptr, shift
}

func (c *CountingFilter) load(pos uint64) uint8 {
	ptr, shift := c.wordFor(pos)
	return uint8(atomic.LoadUint32(ptr) >> shift)
}

// cas attempts to move the counter at pos from old to new, but treats it as
// a success if some other goroutine already advanced it at least as far.
func (c *CountingFilter) cas(pos uint64, old, new uint8) bool {
	ptr, shift := c.wordFor(pos)
	for {
		w := atomic.LoadUint32(ptr)
		cur := uint8(w >> shift)
		if cur != old {
			return cur >= new
		}
		nw := (w &^ (0xFF << shift)) | (uint32(new) << shift)
		if atomic.CompareAndSwapUint32(ptr, w, nw) {
			return true
		}
	}
}

// Count returns the minimum of the counters at the given positions, the
// filter's estimate of the key's multiplicity.
func (c *CountingFilter) Count(hashes []uint64) uint8 {
	min := uint8(255)
	for _, h := range hashes {
		v := c.load(h % c.n)
		if v < min {
			min = v
		}
	}
	return min
}

// Increment applies the conservative-update rule for a key's m positions and
// returns the resulting minimum (the key's new estimated multiplicity).
// Concurrent increments of the same key may under-count by at most one
// relative to a fully serialized execution; this is the accepted
// approximation named for the counting filter's concurrency contract.
func (c *CountingFilter) Increment(hashes []uint64) uint8 {
	positions := make([]uint64, len(hashes))
	min := uint8(255)
	for i, h := range hashes {
		p := h % c.n
		positions[i] = p
		if v := c.load(p); v < min {
			min = v
		}
	}
	next := min
	if min < 255 {
		next = min + 1
	}
	for _, p := range positions {
		c.cas(p, min, next)
	}
	return next
}

// Health reports the filter's occupancy (number of non-zero counters) and
// its estimated false-positive rate (fraction of non-zero counters to the
// power m), the same way PlainFilter.Health does for set bits.
func (c *CountingFilter) Health() Health {
	var nonzero uint64
	for i := uint64(0); i < c.n; i++ {
		if c.load(i) != 0 {
			nonzero++
		}
	}
	fill := float64(nonzero) / float64(c.n)
	fpr := 1.0
	for i := 0; i < c.m; i++ {
		fpr *= fill
	}
	return Health{PopCount: nonzero, N: c.n, M: c.m, EstimatedFPR: fpr}
}

// MarshalBytes returns the raw counter array, for the RBGRAPH snapshot
// payload.
func (c *CountingFilter) MarshalBytes() []byte {
	return c.counters[:c.n]
}

// UnmarshalCountingFilter restores a CountingFilter of n counters from data
// previously produced by MarshalBytes. len(data) must equal n.
func UnmarshalCountingFilter(data []byte, n uint64, m int) (*CountingFilter, error) {
	if uint64(len(data)) != n {
		return nil, ErrDimensionMismatch
	}
	f, err := NewCountingFilter(n, m)
	if err != nil {
		return nil, err
	}
	copy(f.counters, data)
	return f, nil
}

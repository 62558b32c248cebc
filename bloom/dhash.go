package bloom

// PairedKeysFilter needs to turn a bare uint64 key (a half-key or a combined
// key) into m independent bit positions on its own, without depending on the
// hash package's Family: it operates purely at the bit-array level, the same
// way the plain and counting filters do. This file carries the minimal
// double-hash expansion needed for that, mirroring hash.Family.Seeds/
// Positions but kept local so bloom has no upward dependency on the k-mer
// hashing package.

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x = x ^ (x >> 31)
	return x
}

func seeds(key uint64) (h1, h2 uint64) {
	h1 = splitmix64(key)
	h2 = splitmix64(key ^ 0x9e3779b97f4a7c15)
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

func expand(key uint64, m int) []uint64 {
	h1, h2 := seeds(key)
	dst := make([]uint64, m)
	for i := range dst {
		dst[i] = h1 + uint64(i)*h2
	}
	return dst
}

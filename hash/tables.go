package hash

import "math/bits"

// The four seed constants below are the canonical ntHash per-base seeds
// (Mohamadi et al., "ntHash: recursive nucleotide hashing"). They are fixed
// so that hashes are reproducible across runs and across a serialized
// snapshot's lifetime.
const (
	seedA uint64 = 0x3c8bfbb395c60474
	seedC uint64 = 0x3193c18562a02b4c
	seedG uint64 = 0x20323ed082572324
	seedT uint64 = 0x295549f54be24456
)

// base codes: A=0, C=1, G=2, T=3. Complement of a code is 3-code, which
// correctly pairs A<->T (0<->3) and C<->G (1<->2).
var baseSeed = [4]uint64{seedA, seedC, seedG, seedT}

// codeTable maps an input byte to a base code in [0,3], or -1 if the byte is
// not one of A/C/G/T in either case.
var codeTable [256]int8

// msTab[code][r] = rotl64(baseSeed[code], r), precomputed for every rotation
// amount actually used (rotation amounts are always taken mod 64, so 64
// entries suffice regardless of k).
var msTab [4][64]uint64

func init() {
	for i := range codeTable {
		codeTable[i] = -1
	}
	codeTable['A'], codeTable['a'] = 0, 0
	codeTable['C'], codeTable['c'] = 1, 1
	codeTable['G'], codeTable['g'] = 2, 2
	codeTable['T'], codeTable['t'] = 3, 3

	for code := 0; code < 4; code++ {
		for r := 0; r < 64; r++ {
			msTab[code][r] = bits.RotateLeft64(baseSeed[code], r)
		}
	}
}

// code returns the base code for b, and ok=false if b is not a valid
// nucleotide byte.
func code(b byte) (int8, bool) {
	c := codeTable[b]
	return c, c >= 0
}

// complementCode returns the base code of the complementary base.
func complementCode(c int8) int8 {
	return 3 - c
}

func rotl(x uint64, r int) uint64 {
	return bits.RotateLeft64(x, r&63)
}

func rotr(x uint64, r int) uint64 {
	return bits.RotateLeft64(x, -(r & 63))
}

func seedOf(c int8) uint64 {
	return baseSeed[c]
}

func rotSeed(c int8, r int) uint64 {
	return msTab[c][r&63]
}

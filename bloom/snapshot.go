package bloom

import (
	"encoding/binary"
	"io"
)

var snapshotMagic = [8]byte{'R', 'B', 'G', 'R', 'A', 'P', 'H', 0}

// SnapshotParams carries the graph-level fields of an RBGRAPH sidecar file
// that are not derivable from the filters themselves.
type SnapshotParams struct {
	Version  uint32
	K        uint32
	Stranded bool
	Seed     uint64
	DRead    uint32
	DFrag    uint32
}

// WriteSnapshot writes the RBGRAPH sidecar format: an explicit little-endian
// header (magic, version, k, flags, filter sizes and hash counts, seed,
// paired distances) followed by the raw filter arrays in declared order:
// DBG bits, CBF bytes, PKBF (left, right, combined) bits, then RPKBF
// (left, right, combined) bits if rpkbf is non-nil.
func WriteSnapshot(w io.Writer, p SnapshotParams, dbg *PlainFilter, cbf *CountingFilter, pkbf, rpkbf *PairedKeysFilter) error {
	var flags uint32
	if p.Stranded {
		flags |= 1 << 0
	}
	if pkbf != nil {
		flags |= 1 << 1
	}
	if rpkbf != nil {
		flags |= 1 << 2
	}

	var nPKBF uint64
	var mPKBF uint32
	if pkbf != nil {
		nPKBF, mPKBF = pkbf.N(), uint32(pkbf.M())
	}

	header := make([]byte, 0, 64)
	header = append(header, snapshotMagic[:]...)
	header = appendU32(header, p.Version)
	header = appendU32(header, p.K)
	header = appendU32(header, flags)
	header = appendU64(header, dbg.N())
	header = appendU64(header, cbf.N())
	header = appendU64(header, nPKBF)
	header = appendU32(header, uint32(dbg.M()))
	header = appendU32(header, uint32(cbf.M()))
	header = appendU32(header, mPKBF)
	header = appendU64(header, p.Seed)
	header = appendU32(header, p.DRead)
	header = appendU32(header, p.DFrag)

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(dbg.MarshalBits()); err != nil {
		return err
	}
	if _, err := w.Write(cbf.MarshalBytes()); err != nil {
		return err
	}
	if pkbf != nil {
		if err := writePairedPayload(w, pkbf); err != nil {
			return err
		}
	}
	if rpkbf != nil {
		if err := writePairedPayload(w, rpkbf); err != nil {
			return err
		}
	}
	return nil
}

func writePairedPayload(w io.Writer, p *PairedKeysFilter) error {
	for _, blk := range []*PlainFilter{p.left, p.right, p.combined} {
		if _, err := w.Write(blk.MarshalBits()); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot is a decoded RBGRAPH sidecar: the header fields plus the filters
// reconstructed from the payload.
type Snapshot struct {
	Params SnapshotParams
	DBG    *PlainFilter
	CBF    *CountingFilter
	PKBF   *PairedKeysFilter
	RPKBF  *PairedKeysFilter
}

// ReadSnapshot decodes an RBGRAPH sidecar file previously written by
// WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	header := make([]byte, 8+4+4+4+8+8+8+4+4+4+8+4+4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, ErrCorruptSnapshot
	}
	var magic [8]byte
	copy(magic[:], header[:8])
	if magic != snapshotMagic {
		return nil, ErrCorruptSnapshot
	}
	off := 8
	version := readU32(header, &off)
	k := readU32(header, &off)
	flags := readU32(header, &off)
	nDBG := readU64(header, &off)
	nCBF := readU64(header, &off)
	nPKBF := readU64(header, &off)
	mDBG := readU32(header, &off)
	mCBF := readU32(header, &off)
	mPKBF := readU32(header, &off)
	seed := readU64(header, &off)
	dRead := readU32(header, &off)
	dFrag := readU32(header, &off)

	stranded := flags&(1<<0) != 0
	hasPKBF := flags&(1<<1) != 0
	hasRPKBF := flags&(1<<2) != 0

	dbgBytes := make([]byte, (nDBG+7)/8)
	if _, err := io.ReadFull(r, dbgBytes); err != nil {
		return nil, ErrCorruptSnapshot
	}
	dbg, err := UnmarshalBits(dbgBytes, nDBG, int(mDBG))
	if err != nil {
		return nil, err
	}

	cbfBytes := make([]byte, nCBF)
	if _, err := io.ReadFull(r, cbfBytes); err != nil {
		return nil, ErrCorruptSnapshot
	}
	cbf, err := UnmarshalCountingFilter(cbfBytes, nCBF, int(mCBF))
	if err != nil {
		return nil, err
	}

	var pkbf, rpkbf *PairedKeysFilter
	if hasPKBF {
		pkbf, err = readPairedPayload(r, nPKBF, int(mPKBF))
		if err != nil {
			return nil, err
		}
	}
	if hasRPKBF {
		rpkbf, err = readPairedPayload(r, nPKBF, int(mPKBF))
		if err != nil {
			return nil, err
		}
	}

	return &Snapshot{
		Params: SnapshotParams{Version: version, K: k, Stranded: stranded, Seed: seed, DRead: dRead, DFrag: dFrag},
		DBG:    dbg,
		CBF:    cbf,
		PKBF:   pkbf,
		RPKBF:  rpkbf,
	}, nil
}

func readPairedPayload(r io.Reader, n uint64, m int) (*PairedKeysFilter, error) {
	p, err := NewPairedKeysFilter(n, m)
	if err != nil {
		return nil, err
	}
	blocks := []*PlainFilter{p.left, p.right, p.combined}
	nBytes := (n + 7) / 8
	for i, blk := range blocks {
		data := make([]byte, nBytes)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, ErrCorruptSnapshot
		}
		restored, err := UnmarshalBits(data, blk.N(), blk.M())
		if err != nil {
			return nil, err
		}
		blocks[i] = restored
	}
	p.left, p.right, p.combined = blocks[0], blocks[1], blocks[2]
	return p, nil
}

func appendU32(dst []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

func appendU64(dst []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(dst, tmp[:]...)
}

func readU32(src []byte, off *int) uint32 {
	v := binary.LittleEndian.Uint32(src[*off:])
	*off += 4
	return v
}

func readU64(src []byte, off *int) uint64 {
	v := binary.LittleEndian.Uint64(src[*off:])
	*off += 8
	return v
}

package cseq

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"sync"
	"sync/atomic"
)

// Reader serves random access over a finalized container. The index is
// loaded into memory when the reader is opened; every retrieval afterwards
// is served through positioned reads on the underlying io.ReaderAt, so a
// Reader is safe for concurrent use by multiple goroutines.
type Reader struct {
	r    io.ReaderAt
	size int64

	hdr     header
	entries []indexEntry
	byID    map[string]int
	meta    map[string]string

	closer io.Closer // set when the reader owns the underlying resource
	closed atomic.Bool
}

// Open opens the container file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := NewReader(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader opens a container stored in the first size bytes of r.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	hdr, err := readHeader(r, size)
	if err != nil {
		return nil, err
	}

	rd := &Reader{r: r, size: size, hdr: hdr, byID: map[string]int{}}
	if hdr.indexLen > 0 {
		buf := make([]byte, hdr.indexLen)
		if _, err := r.ReadAt(buf, hdr.indexOff); err != nil {
			return nil, err
		}
		if rd.entries, rd.byID, err = parseIndex(buf, hdr.indexOff); err != nil {
			return nil, err
		}
	}

	if tail := size - hdr.indexOff - hdr.indexLen; tail > 0 {
		buf := make([]byte, tail)
		if _, err := r.ReadAt(buf, hdr.indexOff+hdr.indexLen); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(buf, &rd.meta); err != nil {
			return nil, fmt.Errorf("%w: malformed metadata trailer", ErrFormat)
		}
	}
	return rd, nil
}

// Molecule reports the molecule type declared by the container.
func (r *Reader) Molecule() Molecule { return r.hdr.molecule }

// Profile reports the packing profile the container was written with.
func (r *Reader) Profile() Profile { return r.hdr.profile }

// Len returns the number of sequences in the container.
func (r *Reader) Len() int { return len(r.entries) }

// Has reports whether the container holds a sequence with the given id.
func (r *Reader) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Metadata returns a copy of the container-level metadata, or nil when the
// container carries none.
func (r *Reader) Metadata() map[string]string { return maps.Clone(r.meta) }

// IDs iterates over the sequence ids in insertion order.
func (r *Reader) IDs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range r.entries {
			if !yield(e.id) {
				return
			}
		}
	}
}

// BaseCount returns the length in bases of the identified sequence. It is
// answered from the index without touching sequence data.
func (r *Reader) BaseCount(id string) (int, error) {
	e, err := r.entry(id)
	if err != nil {
		return 0, err
	}
	return e.baseCount, nil
}

// Get retrieves the full symbol sequence stored under id.
// It may return an ErrNotFound error.
func (r *Reader) Get(id string) ([]byte, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	raw := fetchBuffer(int(e.length))
	defer releaseBuffer(raw)
	if _, err := r.r.ReadAt(raw, e.offset); err != nil {
		return nil, err
	}

	baseCount, exc, packed, err := parseBlock(raw, r.hdr.profile)
	if err != nil {
		return nil, fmt.Errorf("%w (sequence %q)", err, id)
	}
	if baseCount != e.baseCount {
		return nil, fmt.Errorf("%w: block declares %d bases, index %d (sequence %q)", ErrFormat, baseCount, e.baseCount, id)
	}
	return Unpack(packed, baseCount, exc, r.hdr.molecule, r.hdr.profile)
}

// GetRange retrieves the subsequence [start, end) of id without decoding
// the whole record: only the block prefix, the exception entries and the
// packed bytes covering the requested range are read.
func (r *Reader) GetRange(id string, start, end int) ([]byte, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	if start < 0 || start > end || end > e.baseCount {
		return nil, fmt.Errorf("%w: [%d, %d) of %q with %d bases", ErrInvalidRange, start, end, id, e.baseCount)
	}

	var prefix [blockPrefixSize]byte
	if _, err := r.r.ReadAt(prefix[:], e.offset); err != nil {
		return nil, err
	}
	baseCount := int(binary.LittleEndian.Uint32(prefix[0:4]))
	numExc := int(binary.LittleEndian.Uint16(prefix[4:6]))
	if baseCount != e.baseCount || blockLen(baseCount, numExc, r.hdr.profile) != e.length {
		return nil, fmt.Errorf("%w: block framing disagrees with the index (sequence %q)", ErrFormat, id)
	}
	if numExc > 0 && r.hdr.profile == Direct {
		return nil, fmt.Errorf("%w: exception entries under the direct profile (sequence %q)", ErrFormat, id)
	}

	var exc []Exception
	if numExc > 0 {
		raw := fetchBuffer(numExc * exceptionSize)
		defer releaseBuffer(raw)
		if _, err := r.r.ReadAt(raw, e.offset+blockPrefixSize); err != nil {
			return nil, err
		}
		exc = parseExceptions(raw, numExc)
	}

	if start == end {
		return []byte{}, nil
	}

	// Read the packed bytes covering [start, end), decode them and trim to
	// the exact range. Padding never leaks through: end <= baseCount keeps
	// the trimmed window inside real data.
	per := symbolsPerByte(r.hdr.profile)
	byteStart := start / per
	byteEnd := (end + per - 1) / per

	packed := fetchBuffer(byteEnd - byteStart)
	defer releaseBuffer(packed)
	packedOff := e.offset + blockPrefixSize + int64(numExc)*exceptionSize + int64(byteStart)
	if _, err := r.r.ReadAt(packed, packedOff); err != nil {
		return nil, err
	}

	ab := alphabetFor(r.hdr.molecule)
	var window []byte
	if r.hdr.profile == Direct {
		window = unpackDirect(packed, len(packed)*per, ab)
	} else {
		window = unpackDense(packed, len(packed)*per, ab)
	}

	out := make([]byte, end-start)
	copy(out, window[start-byteStart*per:])
	for _, x := range exc {
		if p := int64(x.Pos); p >= int64(start) && p < int64(end) {
			out[p-int64(start)] = x.Sym
		}
	}
	return out, nil
}

// GetMany retrieves the sequences for the given ids lazily and in order,
// letting callers interleave retrieval with their own processing. The
// iteration stops after the first error.
func (r *Reader) GetMany(ids []string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, id := range ids {
			seq, err := r.Get(id)
			if !yield(seq, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the underlying resource for readers opened through Open or
// OpenMapped. Readers over a caller-supplied io.ReaderAt are only marked
// closed. Closing twice is a no-op.
func (r *Reader) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *Reader) entry(id string) (indexEntry, error) {
	if r.closed.Load() {
		return indexEntry{}, ErrClosed
	}
	i, ok := r.byID[id]
	if !ok {
		return indexEntry{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return r.entries[i], nil
}

// --------------------------------------------------------------------

var bufPool sync.Pool

func fetchBuffer(sz int) []byte {
	if v := bufPool.Get(); v != nil {
		if p := v.([]byte); sz <= cap(p) {
			return p[:sz]
		}
	}
	return make([]byte, sz)
}

func releaseBuffer(p []byte) {
	if cap(p) != 0 {
		bufPool.Put(p)
	}
}

package cseq

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// header is the fixed-size descriptor at the start of every container. The
// index extent is zero while a write session is in flight and is patched in
// once the index location is known.
type header struct {
	molecule Molecule
	profile  Profile
	indexOff int64
	indexLen int64
}

// encode renders the header into its 24-byte on-disk form.
func (h header) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic)
	binary.LittleEndian.PutUint16(buf[4:6], Version)
	buf[6] = byte(h.molecule)
	buf[7] = byte(h.profile)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(h.indexOff))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(h.indexLen))
	return buf
}

// readHeader reads and validates the container header from the start of r,
// where size is the total container size in bytes.
func readHeader(r io.ReaderAt, size int64) (header, error) {
	var h header

	if size < headerSize {
		return h, fmt.Errorf("%w: %d bytes is smaller than the %d-byte header", ErrFormat, size, headerSize)
	}
	buf := make([]byte, headerSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return h, err
	}

	if !bytes.Equal(buf[0:4], magic) {
		return h, fmt.Errorf("%w: bad magic %q", ErrFormat, buf[0:4])
	}
	if v := binary.LittleEndian.Uint16(buf[4:6]); v != Version {
		return h, fmt.Errorf("%w: version %d, reader supports %d", ErrVersion, v, Version)
	}
	h.molecule = Molecule(buf[6])
	h.profile = Profile(buf[7])
	if !h.molecule.isValid() {
		return h, fmt.Errorf("%w: unknown molecule type %d", ErrFormat, buf[6])
	}
	if !h.profile.isValid() {
		return h, fmt.Errorf("%w: unknown packing profile %d", ErrFormat, buf[7])
	}

	h.indexOff = int64(binary.LittleEndian.Uint64(buf[8:16]))
	h.indexLen = int64(binary.LittleEndian.Uint64(buf[16:24]))
	if h.indexOff < headerSize || h.indexLen < 0 || h.indexLen > size-h.indexOff {
		return h, fmt.Errorf("%w: index extent [%d, %d) outside the %d-byte container", ErrCorruptIndex, h.indexOff, h.indexOff+h.indexLen, size)
	}
	return h, nil
}

package cseq

import (
	"encoding/binary"
	"fmt"
)

// appendBlock appends the on-disk form of one encoded sequence to dst: the
// base count, the exception count, the exception entries in sequence order,
// then the packed bytes.
func appendBlock(dst []byte, baseCount int, exc []Exception, packed []byte) []byte {
	var tmp [blockPrefixSize]byte
	binary.LittleEndian.PutUint32(tmp[0:4], uint32(baseCount))
	binary.LittleEndian.PutUint16(tmp[4:6], uint16(len(exc)))
	dst = append(dst, tmp[:]...)

	for _, e := range exc {
		var ent [exceptionSize]byte
		binary.LittleEndian.PutUint32(ent[0:4], e.Pos)
		ent[4] = e.Sym
		dst = append(dst, ent[:]...)
	}
	return append(dst, packed...)
}

// blockLen returns the total on-disk size of a block holding baseCount
// bases and the given number of exceptions under profile p.
func blockLen(baseCount, exceptions int, p Profile) int64 {
	return blockPrefixSize + int64(exceptions)*exceptionSize + packedLen(baseCount, p)
}

// parseBlock splits a raw block into its parts. The block length is
// validated against the length implied by its own prefix, so a block that
// was cut short or shifted reports ErrFormat instead of decoding garbage.
func parseBlock(raw []byte, p Profile) (baseCount int, exc []Exception, packed []byte, err error) {
	if len(raw) < blockPrefixSize {
		return 0, nil, nil, fmt.Errorf("%w: %d-byte block is smaller than its prefix", ErrFormat, len(raw))
	}
	baseCount = int(binary.LittleEndian.Uint32(raw[0:4]))
	numExc := int(binary.LittleEndian.Uint16(raw[4:6]))
	if want := blockLen(baseCount, numExc, p); int64(len(raw)) != want {
		return 0, nil, nil, fmt.Errorf("%w: block is %d bytes, want %d for %d bases and %d exceptions", ErrFormat, len(raw), want, baseCount, numExc)
	}

	if numExc > 0 {
		exc = parseExceptions(raw[blockPrefixSize:], numExc)
	}
	return baseCount, exc, raw[blockPrefixSize+numExc*exceptionSize:], nil
}

// parseExceptions decodes n exception entries from the start of raw.
func parseExceptions(raw []byte, n int) []Exception {
	exc := make([]Exception, n)
	for i := range exc {
		off := i * exceptionSize
		exc[i] = Exception{
			Pos: binary.LittleEndian.Uint32(raw[off : off+4]),
			Sym: raw[off+4],
		}
	}
	return exc
}

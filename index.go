package cseq

import (
	"encoding/binary"
	"fmt"
)

// indexEntry locates one sequence within the data region.
type indexEntry struct {
	id        string
	offset    int64
	length    int64
	baseCount int
}

// indexBuilder accumulates index entries in insertion order during a write
// session.
type indexBuilder struct {
	entries []indexEntry
	byID    map[string]int
}

func newIndexBuilder() *indexBuilder {
	return &indexBuilder{byID: make(map[string]int)}
}

func (b *indexBuilder) has(id string) bool {
	_, ok := b.byID[id]
	return ok
}

func (b *indexBuilder) record(id string, offset, length int64, baseCount int) {
	b.byID[id] = len(b.entries)
	b.entries = append(b.entries, indexEntry{
		id:        id,
		offset:    offset,
		length:    length,
		baseCount: baseCount,
	})
}

// encode serializes the index as a flat table in insertion order.
func (b *indexBuilder) encode() []byte {
	size := 0
	for _, e := range b.entries {
		size += indexEntryOverhead + len(e.id)
	}

	buf := make([]byte, 0, size)
	var tmp [8]byte
	for _, e := range b.entries {
		binary.LittleEndian.PutUint16(tmp[:2], uint16(len(e.id)))
		buf = append(buf, tmp[:2]...)
		buf = append(buf, e.id...)
		binary.LittleEndian.PutUint64(tmp[:8], uint64(e.offset))
		buf = append(buf, tmp[:8]...)
		binary.LittleEndian.PutUint64(tmp[:8], uint64(e.length))
		buf = append(buf, tmp[:8]...)
		binary.LittleEndian.PutUint32(tmp[:4], uint32(e.baseCount))
		buf = append(buf, tmp[:4]...)
	}
	return buf
}

// parseIndex decodes the on-disk index table, preserving entry order and
// building the id lookup. dataEnd is the first byte past the data region;
// every extent must fall inside [headerSize, dataEnd).
func parseIndex(data []byte, dataEnd int64) ([]indexEntry, map[string]int, error) {
	var entries []indexEntry
	byID := make(map[string]int)

	for off := 0; off < len(data); {
		if len(data)-off < 2 {
			return nil, nil, fmt.Errorf("%w: truncated entry at offset %d", ErrCorruptIndex, off)
		}
		idLen := int(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2
		if idLen == 0 {
			return nil, nil, fmt.Errorf("%w: empty id at offset %d", ErrCorruptIndex, off)
		}
		if len(data)-off < idLen+indexEntryOverhead-2 {
			return nil, nil, fmt.Errorf("%w: truncated entry at offset %d", ErrCorruptIndex, off)
		}
		id := string(data[off : off+idLen])
		off += idLen

		e := indexEntry{
			id:        id,
			offset:    int64(binary.LittleEndian.Uint64(data[off : off+8])),
			length:    int64(binary.LittleEndian.Uint64(data[off+8 : off+16])),
			baseCount: int(binary.LittleEndian.Uint32(data[off+16 : off+20])),
		}
		off += indexEntryOverhead - 2

		if e.offset < headerSize || e.length < blockPrefixSize || e.length > dataEnd-e.offset {
			return nil, nil, fmt.Errorf("%w: extent [%d, %d) of %q outside the data region", ErrCorruptIndex, e.offset, e.offset+e.length, id)
		}
		if _, ok := byID[id]; ok {
			return nil, nil, fmt.Errorf("%w: %q appears twice", ErrCorruptIndex, id)
		}
		byID[id] = len(entries)
		entries = append(entries, e)
	}
	return entries, byID, nil
}

package cseq

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// OpenMapped opens the container file at path through a read-only memory
// mapping. Retrievals are served from mapped pages instead of read
// syscalls, which pays off for hot random access. Close unmaps the file.
func OpenMapped(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.Size() < headerSize {
		f.Close()
		return nil, fmt.Errorf("%w: %d bytes is smaller than the %d-byte header", ErrFormat, stat.Size(), headerSize)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := NewReader(bytes.NewReader(m), stat.Size())
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}
	r.closer = &mapCloser{m: m, f: f}
	return r, nil
}

type mapCloser struct {
	m mmap.MMap
	f *os.File
}

func (c *mapCloser) Close() error {
	err := c.m.Unmap()
	if cerr := c.f.Close(); err == nil {
		err = cerr
	}
	return err
}

package cseq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
)

// WriterOptions define writer specific options.
type WriterOptions struct {
	// Molecule declares the molecule type of every sequence in the
	// container. It fixes the codec alphabet.
	// Default: DNA.
	Molecule Molecule

	// Profile selects the packing profile for sequence data.
	// Default: Dense.
	Profile Profile
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}
	if !oo.Molecule.isValid() {
		oo.Molecule = DNA
	}
	if !oo.Profile.isValid() {
		oo.Profile = Dense
	}
	return &oo
}

// Writer builds a container in a single session: sequences are appended one
// by one, then Finalize seals the index and completes the header. Writers
// are not safe for concurrent use.
type Writer struct {
	w  io.Writer
	ws io.WriteSeeker // nil when w cannot seek
	o  *WriterOptions

	file *os.File // owned when created through Create

	buf bytes.Buffer // data region staging for non-seekable outputs
	off int64        // next absolute write position in the data region

	index *indexBuilder
	meta  map[string]string

	started   bool
	finalized bool
}

// NewWriter wraps an output stream and returns a Writer using the given
// options. When w is an io.WriteSeeker, typically an *os.File, blocks are
// streamed straight to it behind a placeholder header which is patched in
// place on Finalize. For any other writer the data region is staged in
// memory and emitted in one piece, completed header first, on Finalize.
// Both paths produce identical bytes.
func NewWriter(w io.Writer, o *WriterOptions) *Writer {
	wr := &Writer{w: w, o: o.norm(), index: newIndexBuilder(), off: headerSize}
	if ws, ok := w.(io.WriteSeeker); ok {
		wr.ws = ws
	}
	return wr
}

// Create creates a container file at path, failing if it already exists.
// The returned Writer owns the file: Close finalizes the container, syncs
// and closes it.
func Create(path string, o *WriterOptions) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f, o)
	w.file = f
	return w, nil
}

// Add encodes one sequence and appends its block to the container. The id
// must be unique within the container and between 1 and 65535 bytes long.
// On error nothing is recorded and the writer remains usable.
func (w *Writer) Add(id string, seq []byte) error {
	if w.finalized {
		return ErrFinalized
	}
	if id == "" || len(id) > maxIDLen {
		return fmt.Errorf("%w: length %d", ErrInvalidID, len(id))
	}
	if w.index.has(id) {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	packed, exc, err := Pack(seq, w.o.Molecule, w.o.Profile)
	if err != nil {
		return fmt.Errorf("%w (sequence %q)", err, id)
	}
	if err := w.start(); err != nil {
		return err
	}

	block := appendBlock(nil, len(seq), exc, packed)
	off := w.off
	if err := w.writeData(block); err != nil {
		return err
	}
	w.index.record(id, off, int64(len(block)), len(seq))
	return nil
}

// SetMetadata attaches container-level key/value metadata, stored alongside
// the index on Finalize. Passing nil or an empty map clears it.
func (w *Writer) SetMetadata(meta map[string]string) error {
	if w.finalized {
		return ErrFinalized
	}
	w.meta = maps.Clone(meta)
	return nil
}

// Finalize seals the container: the index table and any metadata are
// written out and the header is completed with the index location. It
// returns the total container size in bytes. The writer accepts no further
// sequences afterwards; calling Finalize twice is an error.
func (w *Writer) Finalize() (int64, error) {
	if w.finalized {
		return 0, ErrFinalized
	}
	w.finalized = true

	if err := w.start(); err != nil {
		return 0, err
	}

	index := w.index.encode()
	var meta []byte
	if len(w.meta) != 0 {
		var err error
		if meta, err = json.Marshal(w.meta); err != nil {
			return 0, err
		}
	}

	hdr := header{
		molecule: w.o.Molecule,
		profile:  w.o.Profile,
		indexOff: w.off,
		indexLen: int64(len(index)),
	}
	total := w.off + int64(len(index)) + int64(len(meta))

	if w.ws != nil {
		if err := writeAll(w.ws, index, meta); err != nil {
			return 0, err
		}
		if _, err := w.ws.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := w.ws.Write(hdr.encode()); err != nil {
			return 0, err
		}
		if _, err := w.ws.Seek(total, io.SeekStart); err != nil {
			return 0, err
		}
		return total, nil
	}

	if _, err := w.w.Write(hdr.encode()); err != nil {
		return 0, err
	}
	if _, err := w.buf.WriteTo(w.w); err != nil {
		return 0, err
	}
	if err := writeAll(w.w, index, meta); err != nil {
		return 0, err
	}
	return total, nil
}

// Close finalizes the container if Finalize has not been called yet and,
// for writers created through Create, syncs and closes the file. Closing an
// already closed writer is a no-op.
func (w *Writer) Close() error {
	if !w.finalized {
		if _, err := w.Finalize(); err != nil {
			if w.file != nil {
				w.file.Close()
				w.file = nil
			}
			return err
		}
	}
	if w.file == nil {
		return nil
	}

	f := w.file
	w.file = nil
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// start lazily emits the placeholder header so that data blocks begin at a
// stable offset. Staged writers skip it; their header is emitted complete
// on Finalize.
func (w *Writer) start() error {
	if w.started {
		return nil
	}
	w.started = true
	if w.ws == nil {
		return nil
	}
	hdr := header{molecule: w.o.Molecule, profile: w.o.Profile}
	_, err := w.ws.Write(hdr.encode())
	return err
}

// writeData appends p to the data region and advances the write offset.
func (w *Writer) writeData(p []byte) error {
	if w.ws != nil {
		n, err := w.ws.Write(p)
		w.off += int64(n)
		return err
	}
	w.buf.Write(p)
	w.off += int64(len(p))
	return nil
}

func writeAll(w io.Writer, chunks ...[]byte) error {
	for _, p := range chunks {
		if len(p) == 0 {
			continue
		}
		if _, err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

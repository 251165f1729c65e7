// Package fasta reads and writes FASTA formatted sequence data.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Record is a single FASTA record. ID is the first whitespace-delimited
// token of the header line, Desc the remainder.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// Reader reads FASTA records from a stream.
type Reader struct {
	r       *bufio.Reader
	pending []byte // header line of the upcoming record
	err     error
}

// NewReader returns a Reader consuming records from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read returns the next record. It tolerates blank lines, CRLF line
// endings and a missing final newline, and concatenates wrapped sequence
// lines. At the end of the input it returns io.EOF.
func (r *Reader) Read() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}

	header := r.pending
	r.pending = nil
	for header == nil {
		line, err := r.readLine()
		if err != nil {
			r.err = err
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			r.err = fmt.Errorf("fasta: sequence data before first header")
			return nil, r.err
		}
		header = line
	}

	rec, err := parseHeader(header)
	if err != nil {
		r.err = err
		return nil, err
	}

	var seq []byte
	for {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.err = err
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			r.pending = line
			break
		}
		seq = append(seq, line...)
	}
	rec.Seq = seq
	return rec, nil
}

func (r *Reader) readLine() ([]byte, error) {
	line, err := r.r.ReadBytes('\n')
	if len(line) > 0 {
		return bytes.TrimSpace(line), nil
	}
	return nil, err
}

func parseHeader(line []byte) (*Record, error) {
	h := strings.TrimSpace(string(line[1:]))
	if h == "" {
		return nil, fmt.Errorf("fasta: empty header line")
	}
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		return &Record{ID: h[:i], Desc: strings.TrimSpace(h[i+1:])}, nil
	}
	return &Record{ID: h}, nil
}

// --------------------------------------------------------------------

// File is an open FASTA input file.
type File struct {
	*Reader
	f  *os.File
	gz *gzip.Reader
}

// Open opens a FASTA file for reading, transparently decompressing inputs
// with a .gz suffix.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	file := &File{f: f}
	src := io.Reader(f)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		file.gz = gz
		src = gz
	}
	file.Reader = NewReader(src)
	return file, nil
}

// Close closes the decompressor, when present, and the underlying file.
func (f *File) Close() error {
	var err error
	if f.gz != nil {
		err = f.gz.Close()
	}
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// --------------------------------------------------------------------

// Writer writes FASTA records, wrapping sequence lines at a fixed width.
type Writer struct {
	w     *bufio.Writer
	width int
}

// NewWriter returns a Writer emitting records to w. Sequence lines wrap at
// width bases; a width < 1 disables wrapping.
func NewWriter(w io.Writer, width int) *Writer {
	return &Writer{w: bufio.NewWriter(w), width: width}
}

// Write emits one record. Errors are sticky: once the underlying writer
// fails every subsequent call reports the same error.
func (w *Writer) Write(rec *Record) error {
	w.w.WriteByte('>')
	w.w.WriteString(rec.ID)
	if rec.Desc != "" {
		w.w.WriteByte(' ')
		w.w.WriteString(rec.Desc)
	}
	w.w.WriteByte('\n')

	seq := rec.Seq
	if w.width > 0 {
		for len(seq) > w.width {
			w.w.Write(seq[:w.width])
			w.w.WriteByte('\n')
			seq = seq[w.width:]
		}
	}
	w.w.Write(seq)
	return w.w.WriteByte('\n')
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

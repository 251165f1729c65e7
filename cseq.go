package cseq

import "errors"

var magic = []byte{'C', 'S', 'E', 'Q'}

// Version is the container format version this package reads and writes.
const Version = 1

const (
	headerSize = 24

	blockPrefixSize = 6 // base count (4) + exception count (2)
	exceptionSize   = 5 // position (4) + symbol (1)

	indexEntryOverhead = 22 // id length (2) + offset (8) + length (8) + base count (4)

	maxIDLen      = 1<<16 - 1
	maxExceptions = 1<<16 - 1
)

// ErrNotFound is returned when a sequence id is not in the container.
var ErrNotFound = errors.New("cseq: not found")

var (
	// ErrFormat indicates a container that is structurally broken: a bad
	// magic number, a truncated header, or a data block whose framing does
	// not add up.
	ErrFormat = errors.New("cseq: invalid container format")

	// ErrVersion indicates a container written by an incompatible format
	// version.
	ErrVersion = errors.New("cseq: unsupported format version")

	// ErrCorruptIndex indicates an index table that is unreadable or
	// inconsistent with the file it describes.
	ErrCorruptIndex = errors.New("cseq: corrupt index")

	// ErrDuplicateID is returned by writers when a sequence id was already
	// added to the container.
	ErrDuplicateID = errors.New("cseq: duplicate sequence id")

	// ErrInvalidID is returned for empty ids and ids longer than 65535
	// bytes.
	ErrInvalidID = errors.New("cseq: invalid sequence id")

	// ErrEncoding is returned when a sequence cannot be encoded, because a
	// symbol is outside the alphabet or the dense profile ran out of
	// exception slots.
	ErrEncoding = errors.New("cseq: cannot encode sequence")

	// ErrInvalidRange is returned by ranged retrievals for bounds that do
	// not describe a subsequence.
	ErrInvalidRange = errors.New("cseq: invalid sequence range")

	// ErrFinalized is returned by writers after Finalize.
	ErrFinalized = errors.New("cseq: writer already finalized")

	// ErrClosed is returned by readers after Close.
	ErrClosed = errors.New("cseq: reader is closed")
)

// Molecule declares the molecule type of a container. It determines the
// alphabet the codec packs against.
type Molecule uint8

const (
	DNA Molecule = iota
	RNA

	moleculeLimit
)

func (m Molecule) isValid() bool { return m < moleculeLimit }

func (m Molecule) String() string {
	switch m {
	case DNA:
		return "dna"
	case RNA:
		return "rna"
	}
	return "unknown"
}

// Profile selects how sequence data is packed.
type Profile uint8

const (
	// Dense packs the four primary bases at 2 bits per symbol and records
	// every other alphabet symbol in a per-block exception list. It is the
	// default and the better choice for natural sequence data, where
	// ambiguity codes are rare.
	Dense Profile = iota

	// Direct packs every symbol at 4 bits using the IUPAC code table. It
	// never produces exceptions and is the better choice for data dominated
	// by ambiguity codes or gaps.
	Direct

	profileLimit
)

func (p Profile) isValid() bool { return p < profileLimit }

func (p Profile) String() string {
	switch p {
	case Dense:
		return "dense"
	case Direct:
		return "direct"
	}
	return "unknown"
}

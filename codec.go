package cseq

import (
	"fmt"
	"math"
)

// Exception records a symbol the dense profile could not pack: the literal
// symbol and its zero-based position within the sequence.
type Exception struct {
	Pos uint32
	Sym byte
}

// Pack encodes a symbol sequence into its packed form under the given
// molecule alphabet and packing profile. Lower-case input is folded to
// upper-case. Under the Dense profile, symbols outside the core set are
// returned as exceptions; under Direct the exception slice is always nil.
// Symbols outside the alphabet entirely yield ErrEncoding.
func Pack(seq []byte, m Molecule, p Profile) ([]byte, []Exception, error) {
	if !m.isValid() {
		return nil, nil, fmt.Errorf("%w: unknown molecule type %d", ErrEncoding, m)
	}
	if !p.isValid() {
		return nil, nil, fmt.Errorf("%w: unknown packing profile %d", ErrEncoding, p)
	}
	if int64(len(seq)) > math.MaxUint32 {
		return nil, nil, fmt.Errorf("%w: sequence of %d bases exceeds the format limit", ErrEncoding, len(seq))
	}

	ab := alphabetFor(m)
	if p == Direct {
		packed, err := packDirect(seq, ab)
		return packed, nil, err
	}
	return packDense(seq, ab)
}

func packDense(seq []byte, ab *alphabet) ([]byte, []Exception, error) {
	packed := make([]byte, (len(seq)+3)/4)

	var exc []Exception
	for i, b := range seq {
		c := ab.canon[b]
		if c == 0 {
			return nil, nil, fmt.Errorf("%w: symbol %q at position %d", ErrEncoding, b, i)
		}
		code := ab.code2[c]
		if code < 0 {
			if len(exc) == maxExceptions {
				return nil, nil, fmt.Errorf("%w: more than %d symbols outside the core set, use the direct profile", ErrEncoding, maxExceptions)
			}
			exc = append(exc, Exception{Pos: uint32(i), Sym: c})
			code = 0 // placeholder, overlaid by the exception on decode
		}
		packed[i>>2] |= byte(code) << uint(6-2*(i&3))
	}
	return packed, exc, nil
}

func packDirect(seq []byte, ab *alphabet) ([]byte, error) {
	packed := make([]byte, (len(seq)+1)/2)

	for i, b := range seq {
		c := ab.canon[b]
		if c == 0 {
			return nil, fmt.Errorf("%w: symbol %q at position %d", ErrEncoding, b, i)
		}
		if code := ab.code4[c]; i&1 == 0 {
			packed[i>>1] = code << 4
		} else {
			packed[i>>1] |= code
		}
	}
	return packed, nil
}

// Unpack decodes packed bytes produced by Pack back into a symbol sequence
// of baseCount symbols. Dense exceptions are overlaid after unpacking.
// Decoded symbols are always canonical upper-case.
func Unpack(packed []byte, baseCount int, exc []Exception, m Molecule, p Profile) ([]byte, error) {
	if !m.isValid() {
		return nil, fmt.Errorf("%w: unknown molecule type %d", ErrFormat, m)
	}
	if !p.isValid() {
		return nil, fmt.Errorf("%w: unknown packing profile %d", ErrFormat, p)
	}
	if baseCount < 0 {
		return nil, fmt.Errorf("%w: negative base count", ErrFormat)
	}
	if int64(len(packed)) != packedLen(baseCount, p) {
		return nil, fmt.Errorf("%w: %d packed bytes cannot hold %d bases", ErrFormat, len(packed), baseCount)
	}

	ab := alphabetFor(m)
	if p == Direct {
		if len(exc) != 0 {
			return nil, fmt.Errorf("%w: exception entries under the direct profile", ErrFormat)
		}
		return unpackDirect(packed, baseCount, ab), nil
	}

	seq := unpackDense(packed, baseCount, ab)
	if err := overlayExceptions(seq, exc); err != nil {
		return nil, err
	}
	return seq, nil
}

func unpackDense(packed []byte, n int, ab *alphabet) []byte {
	seq := make([]byte, n)
	for i := 0; i < n; i++ {
		code := packed[i>>2] >> uint(6-2*(i&3)) & 3
		seq[i] = ab.core[code]
	}
	return seq
}

func unpackDirect(packed []byte, n int, ab *alphabet) []byte {
	seq := make([]byte, n)
	for i := 0; i < n; i++ {
		b := packed[i>>1]
		if i&1 == 0 {
			b >>= 4
		}
		seq[i] = ab.symbols[b&0x0F]
	}
	return seq
}

func overlayExceptions(seq []byte, exc []Exception) error {
	for _, e := range exc {
		if int64(e.Pos) >= int64(len(seq)) {
			return fmt.Errorf("%w: exception position %d beyond %d bases", ErrFormat, e.Pos, len(seq))
		}
		seq[e.Pos] = e.Sym
	}
	return nil
}

// packedLen returns the exact number of packed bytes the codec produces for
// baseCount symbols under profile p.
func packedLen(baseCount int, p Profile) int64 {
	if p == Direct {
		return (int64(baseCount) + 1) / 2
	}
	return (int64(baseCount) + 3) / 4
}

// symbolsPerByte returns how many symbols one packed byte holds under
// profile p.
func symbolsPerByte(p Profile) int {
	if p == Direct {
		return 2
	}
	return 4
}

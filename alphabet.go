package cseq

// iupacCode maps every supported nucleotide symbol to its 4-bit IUPAC code.
// The code of a symbol is the bitwise union of the primary bases it stands
// for (A=1, C=2, G=4, T=8); the gap symbol is 0. For RNA alphabets U takes
// the place of T.
var iupacCode = map[byte]uint8{
	'A': 0x1, 'C': 0x2, 'G': 0x4, 'T': 0x8,
	'R': 0x5, 'Y': 0xA, 'S': 0x6, 'W': 0x9,
	'K': 0xC, 'M': 0x3, 'B': 0xE, 'D': 0xD,
	'H': 0xB, 'V': 0x7, 'N': 0xF, '-': 0x0,
}

// alphabet holds the lookup tables for one molecule type. Tables are indexed
// by canonical (upper-case) symbols; canon folds arbitrary input bytes into
// canonical form, with zero marking bytes outside the alphabet.
type alphabet struct {
	core    [4]byte   // 2-bit code -> symbol
	symbols [16]byte  // 4-bit code -> symbol
	canon   [256]byte // input byte -> canonical symbol, 0 if invalid
	code2   [256]int8 // canonical symbol -> 2-bit code, -1 outside the core set
	code4   [256]byte // canonical symbol -> 4-bit code
}

var (
	dnaAlphabet = buildAlphabet('T')
	rnaAlphabet = buildAlphabet('U')
)

func alphabetFor(m Molecule) *alphabet {
	if m == RNA {
		return rnaAlphabet
	}
	return dnaAlphabet
}

func buildAlphabet(t byte) *alphabet {
	ab := new(alphabet)
	ab.core = [4]byte{'A', 'C', 'G', t}
	for i := range ab.code2 {
		ab.code2[i] = -1
	}
	for sym, code := range iupacCode {
		if sym == 'T' {
			sym = t
		}
		ab.canon[sym] = sym
		if sym >= 'A' && sym <= 'Z' {
			ab.canon[sym+'a'-'A'] = sym
		}
		ab.code4[sym] = code
		ab.symbols[code] = sym
	}
	for i, sym := range ab.core {
		ab.code2[sym] = int8(i)
	}
	return ab
}

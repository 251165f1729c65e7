package cseq_test

import (
	"bytes"
	"math/rand"

	cseq "github.com/Bit-2310/compact-on-demand-rapid-encoding-of-sequences"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pack", func() {
	It("should pack core symbols at 2 bits", func() {
		packed, exc, err := cseq.Pack([]byte("ACGT"), cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(packed).To(Equal([]byte{0x1b}))
		Expect(exc).To(BeEmpty())
	})

	It("should record non-core symbols as exceptions", func() {
		packed, exc, err := cseq.Pack([]byte("ACGTN"), cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(packed).To(Equal([]byte{0x1b, 0x00}))
		Expect(exc).To(Equal([]cseq.Exception{{Pos: 4, Sym: 'N'}}))
	})

	It("should pack IUPAC codes at 4 bits under the direct profile", func() {
		packed, exc, err := cseq.Pack([]byte("GATTACA"), cseq.DNA, cseq.Direct)
		Expect(err).NotTo(HaveOccurred())
		Expect(packed).To(Equal([]byte{0x41, 0x88, 0x12, 0x10}))
		Expect(exc).To(BeNil())
	})

	It("should fold lower-case input", func() {
		packed, exc, err := cseq.Pack([]byte("acgtn"), cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(packed).To(Equal([]byte{0x1b, 0x00}))
		Expect(exc).To(Equal([]cseq.Exception{{Pos: 4, Sym: 'N'}}))
	})

	It("should substitute U for T in RNA alphabets", func() {
		packed, _, err := cseq.Pack([]byte("ACGU"), cseq.RNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(packed).To(Equal([]byte{0x1b}))

		_, _, err = cseq.Pack([]byte("ACGT"), cseq.RNA, cseq.Dense)
		Expect(err).To(MatchError(cseq.ErrEncoding))

		_, _, err = cseq.Pack([]byte("ACGU"), cseq.DNA, cseq.Dense)
		Expect(err).To(MatchError(cseq.ErrEncoding))
	})

	It("should reject symbols outside the alphabet", func() {
		for _, seq := range []string{"ACXGT", "AC GT", "ACGT\n", "12345"} {
			_, _, err := cseq.Pack([]byte(seq), cseq.DNA, cseq.Dense)
			Expect(err).To(MatchError(cseq.ErrEncoding), "seq %q", seq)

			_, _, err = cseq.Pack([]byte(seq), cseq.DNA, cseq.Direct)
			Expect(err).To(MatchError(cseq.ErrEncoding), "seq %q", seq)
		}
	})

	It("should allow at most 65535 exceptions", func() {
		seq := bytes.Repeat([]byte{'N'}, 65535)
		packed, exc, err := cseq.Pack(seq, cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(exc).To(HaveLen(65535))

		dec, err := cseq.Unpack(packed, len(seq), exc, cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(dec).To(Equal(seq))

		_, _, err = cseq.Pack(append(seq, 'N'), cseq.DNA, cseq.Dense)
		Expect(err).To(MatchError(cseq.ErrEncoding))
	})

	It("should pack empty sequences", func() {
		packed, exc, err := cseq.Pack(nil, cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(packed).To(BeEmpty())
		Expect(exc).To(BeEmpty())
	})
})

var _ = Describe("Unpack", func() {
	It("should roundtrip dense sequences of every phase", func() {
		rnd := rand.New(rand.NewSource(2))
		for n := 0; n <= 33; n++ {
			seq := randSeq(rnd, "ACGT", n)
			packed, exc, err := cseq.Pack(seq, cseq.DNA, cseq.Dense)
			Expect(err).NotTo(HaveOccurred())
			Expect(packed).To(HaveLen((n + 3) / 4))
			Expect(exc).To(BeEmpty())

			dec, err := cseq.Unpack(packed, n, exc, cseq.DNA, cseq.Dense)
			Expect(err).NotTo(HaveOccurred())
			Expect(dec).To(Equal(seq))
		}
	})

	It("should roundtrip the full alphabet under both profiles", func() {
		rnd := rand.New(rand.NewSource(3))
		for _, p := range []cseq.Profile{cseq.Dense, cseq.Direct} {
			for n := 0; n <= 33; n++ {
				seq := randSeq(rnd, iupacDNA, n)
				packed, exc, err := cseq.Pack(seq, cseq.DNA, p)
				Expect(err).NotTo(HaveOccurred())

				dec, err := cseq.Unpack(packed, n, exc, cseq.DNA, p)
				Expect(err).NotTo(HaveOccurred())
				Expect(dec).To(Equal(seq), "profile %s, n=%d", p, n)
			}
		}
	})

	It("should roundtrip RNA sequences", func() {
		seq := []byte("AUGCUUNAU-")
		for _, p := range []cseq.Profile{cseq.Dense, cseq.Direct} {
			packed, exc, err := cseq.Pack(seq, cseq.RNA, p)
			Expect(err).NotTo(HaveOccurred())

			dec, err := cseq.Unpack(packed, len(seq), exc, cseq.RNA, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(dec).To(Equal(seq))
		}
	})

	It("should decode canonical upper-case symbols", func() {
		packed, exc, err := cseq.Pack([]byte("acgtn"), cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())

		dec, err := cseq.Unpack(packed, 5, exc, cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(dec).To(Equal([]byte("ACGTN")))
	})

	It("should reject packed data of the wrong size", func() {
		_, err := cseq.Unpack([]byte{0x1b}, 5, nil, cseq.DNA, cseq.Dense)
		Expect(err).To(MatchError(cseq.ErrFormat))

		_, err = cseq.Unpack([]byte{0x1b, 0x00, 0x00}, 5, nil, cseq.DNA, cseq.Dense)
		Expect(err).To(MatchError(cseq.ErrFormat))
	})

	It("should reject exceptions beyond the sequence", func() {
		exc := []cseq.Exception{{Pos: 9, Sym: 'N'}}
		_, err := cseq.Unpack([]byte{0x1b, 0x00}, 5, exc, cseq.DNA, cseq.Dense)
		Expect(err).To(MatchError(cseq.ErrFormat))
	})

	It("should reject exceptions under the direct profile", func() {
		packed, _, err := cseq.Pack([]byte("ACGT"), cseq.DNA, cseq.Direct)
		Expect(err).NotTo(HaveOccurred())

		_, err = cseq.Unpack(packed, 4, []cseq.Exception{{Pos: 0, Sym: 'N'}}, cseq.DNA, cseq.Direct)
		Expect(err).To(MatchError(cseq.ErrFormat))
	})
})

var _ = Describe("Exception", func() {
	It("should preserve insertion order through a pack cycle", func() {
		seq := bytes.Repeat([]byte("ACGTN-"), 3)
		_, exc, err := cseq.Pack(seq, cseq.DNA, cseq.Dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(exc).To(Equal([]cseq.Exception{
			{Pos: 4, Sym: 'N'}, {Pos: 5, Sym: '-'},
			{Pos: 10, Sym: 'N'}, {Pos: 11, Sym: '-'},
			{Pos: 16, Sym: 'N'}, {Pos: 17, Sym: '-'},
		}))
	})
})

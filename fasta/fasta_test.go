package fasta_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bit-2310/compact-on-demand-rapid-encoding-of-sequences/fasta"
	"github.com/klauspost/compress/gzip"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reader", func() {
	It("should read records", func() {
		recs, err := readAll(fasta.NewReader(strings.NewReader(
			">seq1 Homo sapiens chromosome 1\nACGTACGT\n>seq2\nTTTT\n",
		)))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(Equal([]*fasta.Record{
			{ID: "seq1", Desc: "Homo sapiens chromosome 1", Seq: []byte("ACGTACGT")},
			{ID: "seq2", Seq: []byte("TTTT")},
		}))
	})

	It("should concatenate wrapped sequence lines", func() {
		recs, err := readAll(fasta.NewReader(strings.NewReader(
			">seq1\nACGT\nACGT\nAC\n",
		)))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].Seq).To(Equal([]byte("ACGTACGTAC")))
	})

	It("should tolerate CRLF, blank lines and a missing final newline", func() {
		recs, err := readAll(fasta.NewReader(strings.NewReader(
			">seq1\r\nACGT\r\n\r\n>seq2\r\n\nTT\nTT",
		)))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(Equal([]*fasta.Record{
			{ID: "seq1", Seq: []byte("ACGT")},
			{ID: "seq2", Seq: []byte("TTTT")},
		}))
	})

	It("should allow records without sequence data", func() {
		recs, err := readAll(fasta.NewReader(strings.NewReader(
			">seq1\n>seq2\nACGT\n",
		)))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(2))
		Expect(recs[0].ID).To(Equal("seq1"))
		Expect(recs[0].Seq).To(BeNil())
		Expect(recs[1].Seq).To(Equal([]byte("ACGT")))
	})

	It("should split the header on the first whitespace", func() {
		recs, err := readAll(fasta.NewReader(strings.NewReader(
			">seq1\tdescription\twith tabs\nACGT\n",
		)))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs[0].ID).To(Equal("seq1"))
		Expect(recs[0].Desc).To(Equal("description\twith tabs"))
	})

	It("should reject sequence data before the first header", func() {
		_, err := readAll(fasta.NewReader(strings.NewReader("ACGT\n>seq1\nACGT\n")))
		Expect(err).To(MatchError("fasta: sequence data before first header"))
	})

	It("should reject empty header lines", func() {
		_, err := readAll(fasta.NewReader(strings.NewReader(">\nACGT\n")))
		Expect(err).To(MatchError("fasta: empty header line"))
	})

	It("should keep returning io.EOF once drained", func() {
		r := fasta.NewReader(strings.NewReader(">seq1\nACGT\n"))
		_, err := r.Read()
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 3; i++ {
			_, err = r.Read()
			Expect(err).To(MatchError(io.EOF))
		}
	})

	It("should read empty input", func() {
		recs, err := readAll(fasta.NewReader(strings.NewReader("")))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(BeEmpty())
	})
})

var _ = Describe("Open", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "fasta-test")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	It("should open plain files", func() {
		path := filepath.Join(dir, "in.fasta")
		Expect(os.WriteFile(path, []byte(">seq1\nACGT\n"), 0644)).To(Succeed())

		f, err := fasta.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		recs, err := readAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].ID).To(Equal("seq1"))
	})

	It("should decompress gzip files", func() {
		buf := new(bytes.Buffer)
		gz := gzip.NewWriter(buf)
		_, err := gz.Write([]byte(">seq1\nACGTACGT\n>seq2\nTT\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(gz.Close()).To(Succeed())

		path := filepath.Join(dir, "in.fasta.gz")
		Expect(os.WriteFile(path, buf.Bytes(), 0644)).To(Succeed())

		f, err := fasta.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		recs, err := readAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(2))
		Expect(recs[0].Seq).To(Equal([]byte("ACGTACGT")))
	})
})

var _ = Describe("Writer", func() {
	It("should wrap sequence lines", func() {
		buf := new(bytes.Buffer)
		w := fasta.NewWriter(buf, 4)
		Expect(w.Write(&fasta.Record{ID: "seq1", Desc: "test", Seq: []byte("ACGTACGTAC")})).To(Succeed())
		Expect(w.Flush()).To(Succeed())

		Expect(buf.String()).To(Equal(">seq1 test\nACGT\nACGT\nAC\n"))
	})

	It("should write unwrapped when width is disabled", func() {
		buf := new(bytes.Buffer)
		w := fasta.NewWriter(buf, 0)
		Expect(w.Write(&fasta.Record{ID: "seq1", Seq: []byte("ACGTACGTAC")})).To(Succeed())
		Expect(w.Flush()).To(Succeed())

		Expect(buf.String()).To(Equal(">seq1\nACGTACGTAC\n"))
	})

	It("should roundtrip", func() {
		in := []*fasta.Record{
			{ID: "seq1", Desc: "first", Seq: []byte("ACGTACGTACGTACGT")},
			{ID: "seq2", Seq: []byte("TT")},
			{ID: "seq3", Seq: nil},
		}

		buf := new(bytes.Buffer)
		w := fasta.NewWriter(buf, 5)
		for _, rec := range in {
			Expect(w.Write(rec)).To(Succeed())
		}
		Expect(w.Flush()).To(Succeed())

		out, err := readAll(fasta.NewReader(buf))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(in))
	})
})

// Command cseq-convert packs a FASTA file into an indexed sequence
// container.
//
//	cseq-convert -molecule dna -profile dense genome.fasta.gz genome.cseq
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	pb "gopkg.in/cheggaaa/pb.v1"

	cseq "github.com/Bit-2310/compact-on-demand-rapid-encoding-of-sequences"
	"github.com/Bit-2310/compact-on-demand-rapid-encoding-of-sequences/fasta"
)

var (
	molecule = flag.String("molecule", "dna", "molecule type, dna or rna")
	profile  = flag.String("profile", "dense", "packing profile, dense or direct")
	quiet    = flag.Bool("q", false, "suppress the progress bar")

	meta = metaFlags{}
)

func init() {
	flag.Var(meta, "meta", "container metadata entry as key=value (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.fasta[.gz]> <output.cseq>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	opts := new(cseq.WriterOptions)
	switch strings.ToLower(*molecule) {
	case "dna":
		opts.Molecule = cseq.DNA
	case "rna":
		opts.Molecule = cseq.RNA
	default:
		log.Fatalf("unknown molecule type %q", *molecule)
	}
	switch strings.ToLower(*profile) {
	case "dense":
		opts.Profile = cseq.Dense
	case "direct":
		opts.Profile = cseq.Direct
	default:
		log.Fatalf("unknown packing profile %q", *profile)
	}

	in, err := os.Open(inPath)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		log.Fatal(err)
	}

	var bar *pb.ProgressBar
	src := io.Reader(in)
	if !*quiet {
		bar = pb.New64(stat.Size())
		bar.Units = pb.U_BYTES
		bar.ShowSpeed = true
		bar.ShowTimeLeft = true
		bar.Output = os.Stderr
		bar.Start()
		src = bar.NewProxyReader(src)
	}
	if strings.HasSuffix(inPath, ".gz") {
		gz, err := gzip.NewReader(src)
		if err != nil {
			log.Fatalf("%s: %v", inPath, err)
		}
		defer gz.Close()
		src = gz
	}

	w, err := cseq.Create(outPath, opts)
	if err != nil {
		log.Fatal(err)
	}
	if len(meta) != 0 {
		if err := w.SetMetadata(meta); err != nil {
			log.Fatal(err)
		}
	}

	var count int
	fr := fasta.NewReader(src)
	for {
		rec, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("%s: %v", inPath, err)
		}
		if err := w.Add(rec.ID, rec.Seq); err != nil {
			log.Fatal(err)
		}
		count++
	}

	size, err := w.Finalize()
	if err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
	if bar != nil {
		bar.Finish()
	}

	fmt.Printf("wrote %d sequences (%d bytes) to %s\n", count, size, outPath)
}

// --------------------------------------------------------------------

type metaFlags map[string]string

func (m metaFlags) String() string { return "" }

func (m metaFlags) Set(v string) error {
	key, val, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	m[key] = val
	return nil
}

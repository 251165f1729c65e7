// Command cseq-dump inspects a sequence container: summary, id listing,
// metadata, single sequences and ranges, or a full FASTA export.
//
//	cseq-dump genome.cseq
//	cseq-dump -ids genome.cseq
//	cseq-dump -get chr1 genome.cseq
//	cseq-dump -range chr1:1000-1100 genome.cseq
//	cseq-dump -fasta genome.cseq > genome.fasta
package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	cseq "github.com/Bit-2310/compact-on-demand-rapid-encoding-of-sequences"
	"github.com/Bit-2310/compact-on-demand-rapid-encoding-of-sequences/fasta"
)

var (
	ids    = flag.Bool("ids", false, "list sequence ids with base counts")
	meta   = flag.Bool("meta", false, "print container metadata")
	get    = flag.String("get", "", "print one sequence as FASTA")
	rng    = flag.String("range", "", "print a subsequence, as id:start-end (end exclusive)")
	export = flag.Bool("fasta", false, "export every sequence as FASTA")
	width  = flag.Int("width", 60, "FASTA line width")
	mapped = flag.Bool("mmap", false, "access the container through a memory mapping")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <container.cseq>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	open := cseq.Open
	if *mapped {
		open = cseq.OpenMapped
	}
	r, err := open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	switch {
	case *ids:
		listIDs(r)
	case *meta:
		printMeta(r)
	case *get != "":
		printSeq(r, *get)
	case *rng != "":
		printRange(r, *rng)
	case *export:
		exportFasta(r)
	default:
		summary(r)
	}
}

func summary(r *cseq.Reader) {
	var bases int64
	for id := range r.IDs() {
		n, err := r.BaseCount(id)
		if err != nil {
			log.Fatal(err)
		}
		bases += int64(n)
	}
	fmt.Printf("molecule:  %s\n", r.Molecule())
	fmt.Printf("profile:   %s\n", r.Profile())
	fmt.Printf("sequences: %d\n", r.Len())
	fmt.Printf("bases:     %d\n", bases)
}

func listIDs(r *cseq.Reader) {
	for id := range r.IDs() {
		n, err := r.BaseCount(id)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s\t%d\n", id, n)
	}
}

func printMeta(r *cseq.Reader) {
	m := r.Metadata()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Printf("%s=%s\n", k, m[k])
	}
}

func printSeq(r *cseq.Reader, id string) {
	seq, err := r.Get(id)
	if err != nil {
		log.Fatal(err)
	}
	writeFasta(&fasta.Record{ID: id, Seq: seq})
}

func printRange(r *cseq.Reader, spec string) {
	id, bounds, ok := strings.Cut(spec, ":")
	if !ok {
		log.Fatalf("malformed range %q, want id:start-end", spec)
	}
	lo, hi, ok := strings.Cut(bounds, "-")
	if !ok {
		log.Fatalf("malformed range %q, want id:start-end", spec)
	}
	start, err := strconv.Atoi(lo)
	if err != nil {
		log.Fatalf("malformed range %q: %v", spec, err)
	}
	end, err := strconv.Atoi(hi)
	if err != nil {
		log.Fatalf("malformed range %q: %v", spec, err)
	}

	seq, err := r.GetRange(id, start, end)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", seq)
}

func exportFasta(r *cseq.Reader) {
	w := fasta.NewWriter(os.Stdout, *width)
	for id := range r.IDs() {
		seq, err := r.Get(id)
		if err != nil {
			log.Fatal(err)
		}
		if err := w.Write(&fasta.Record{ID: id, Seq: seq}); err != nil {
			log.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}

func writeFasta(rec *fasta.Record) {
	w := fasta.NewWriter(os.Stdout, *width)
	if err := w.Write(rec); err != nil {
		log.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}

// Package loader assembles batches of sequences from a container for
// training-style consumption, with deterministic per-pass shuffling and
// bounded prefetch ahead of the consumer.
package loader

import (
	"context"
	"fmt"
	"iter"
	"math/rand"
	"slices"

	cseq "github.com/Bit-2310/compact-on-demand-rapid-encoding-of-sequences"
	"golang.org/x/sync/errgroup"
)

// Options configure a Loader.
type Options struct {
	// BatchSize is the number of sequences per batch; the final batch of a
	// pass may be smaller.
	// Default: 32.
	BatchSize int

	// Shuffle reorders the sequences before every pass.
	Shuffle bool

	// Seed fixes the shuffle order. Loaders with the same seed produce the
	// same sequence of passes.
	Seed int64

	// Workers bounds the concurrent retrievals within a batch.
	// Default: 4.
	Workers int

	// Prefetch is the number of assembled batches buffered ahead of the
	// consumer.
	// Default: 1.
	Prefetch int
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}
	if oo.BatchSize < 1 {
		oo.BatchSize = 32
	}
	if oo.Workers < 1 {
		oo.Workers = 4
	}
	if oo.Prefetch < 1 {
		oo.Prefetch = 1
	}
	return &oo
}

// Batch is one batch of sequences. IDs and Seqs are aligned.
type Batch struct {
	IDs  []string
	Seqs [][]byte
}

// Loader batches sequences from a container reader. It is not safe for
// concurrent use, but the passes it runs fan work out over the reader's
// concurrent positioned reads.
type Loader struct {
	r   *cseq.Reader
	o   *Options
	ids []string
	rnd *rand.Rand
}

// New returns a Loader over every sequence in r, in index order unless
// shuffling is enabled.
func New(r *cseq.Reader, o *Options) *Loader {
	l := &Loader{r: r, o: o.norm()}
	for id := range r.IDs() {
		l.ids = append(l.ids, id)
	}
	l.rnd = rand.New(rand.NewSource(l.o.Seed))
	return l
}

// Len returns the number of sequences the loader draws from.
func (l *Loader) Len() int { return len(l.ids) }

// NumBatches returns the number of batches in one full pass.
func (l *Loader) NumBatches() int {
	return (len(l.ids) + l.o.BatchSize - 1) / l.o.BatchSize
}

// Batches runs one full pass, yielding every batch exactly once. Each range
// over the result is a fresh pass with its own shuffle order. The first
// retrieval error is yielded as the final element and ends the pass;
// cancelling ctx stops the pass early.
func (l *Loader) Batches(ctx context.Context) iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		ids := slices.Clone(l.ids)
		if l.o.Shuffle {
			l.rnd.Shuffle(len(ids), func(i, j int) {
				ids[i], ids[j] = ids[j], ids[i]
			})
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		out := make(chan outcome, l.o.Prefetch)
		go func() {
			defer close(out)
			for start := 0; start < len(ids); start += l.o.BatchSize {
				end := min(start+l.o.BatchSize, len(ids))
				b, err := l.fetch(ctx, ids[start:end])
				select {
				case out <- outcome{batch: b, err: err}:
				case <-ctx.Done():
					return
				}
				if err != nil {
					return
				}
			}
		}()

		for oc := range out {
			if !yield(oc.batch, oc.err) || oc.err != nil {
				return
			}
		}
	}
}

type outcome struct {
	batch Batch
	err   error
}

// fetch retrieves one batch, fanning the reads out over Workers goroutines.
func (l *Loader) fetch(ctx context.Context, ids []string) (Batch, error) {
	b := Batch{
		IDs:  slices.Clone(ids),
		Seqs: make([][]byte, len(ids)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.o.Workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seq, err := l.r.Get(id)
			if err != nil {
				return fmt.Errorf("load %q: %w", id, err)
			}
			b.Seqs[i] = seq
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, err
	}
	return b, nil
}

package sequence

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/muliwe/go-fizzbuzz-classifier/internal/classifier"
)

// DefaultFrom and DefaultTo bound the classic driver range.
const (
	DefaultFrom int64 = 1
	DefaultTo   int64 = 100
)

// Range is a validated inclusive span of integers to classify.
type Range struct {
	From int64
	To   int64
}

// DefaultRange returns the classic 1..100 span
func DefaultRange() Range {
	return Range{From: DefaultFrom, To: DefaultTo}
}

// NewRange validates that from <= to and returns the span
func NewRange(from, to int64) (Range, error) {
	if from > to {
		return Range{}, fmt.Errorf("invalid range: from %d > to %d", from, to)
	}
	return Range{From: from, To: to}, nil
}

// Len returns the number of integers in the span. Computed in uint64 so
// spans wider than half the int64 domain do not wrap negative and slip
// past size guards.
func (r Range) Len() uint64 {
	n := uint64(r.To) - uint64(r.From) + 1
	if n == 0 {
		// Full MinInt64..MaxInt64 span: the true count is 1<<64 and
		// does not fit; saturate.
		return math.MaxUint64
	}
	return n
}

// Driver applies a classifier across bounded integer ranges
type Driver struct {
	classifier *classifier.Classifier
}

// New creates a new driver
func New(c *classifier.Classifier) *Driver {
	return &Driver{classifier: c}
}

// Run applies the classifier to every integer in the range in increasing
// order, calling fn with each result. It stops early only when the
// context is cancelled or fn returns an error. The end-of-range check
// happens before the increment so a range ending at MaxInt64 terminates
// instead of wrapping.
func (d *Driver) Run(ctx context.Context, r Range, fn func(classifier.Classification) error) error {
	for n := r.From; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(d.classifier.Classify(n)); err != nil {
			return err
		}
		if n == r.To {
			return nil
		}
	}
}

// Write emits one rendered label per line for the whole range through a
// buffered writer. The flush error is returned so short writes are not
// silently dropped.
func (d *Driver) Write(ctx context.Context, r Range, w io.Writer) error {
	bw := bufio.NewWriter(w)

	err := d.Run(ctx, r, func(result classifier.Classification) error {
		if _, werr := bw.WriteString(result.Label); werr != nil {
			return werr
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return err
	}

	return bw.Flush()
}

// Generate lazily streams classifications for the range. The channel is
// closed when the range is exhausted or the context is cancelled, so a
// consumer may stop draining at any point without leaking the goroutine.
func (d *Driver) Generate(ctx context.Context, r Range) <-chan classifier.Classification {
	out := make(chan classifier.Classification)

	go func() {
		defer close(out)
		for n := r.From; ; n++ {
			select {
			case out <- d.classifier.Classify(n):
			case <-ctx.Done():
				return
			}
			if n == r.To {
				return
			}
		}
	}()

	return out
}

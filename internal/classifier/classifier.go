package classifier

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Kind identifies which of the four mutually exclusive variants applies
// to an integer.
type Kind string

const (
	KindFizzBuzz Kind = "fizzbuzz"
	KindFizz     Kind = "fizz"
	KindBuzz     Kind = "buzz"
	KindNumber   Kind = "number"
)

// Classification is the tagged result of classifying one integer.
// N carries the originating value; Label is the rendered form.
type Classification struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	N         int64     `json:"n"`
	Kind      Kind      `json:"kind"`
	Label     string    `json:"label"`
	Reason    string    `json:"reason"`
}

// Classifier maps integers to their FizzBuzz classification
type Classifier struct {
	fizzLabel string
	buzzLabel string
}

// Config holds classifier configuration
type Config struct {
	// FizzLabel and BuzzLabel override the rendered labels.
	// The combined case renders as FizzLabel + BuzzLabel.
	FizzLabel string
	BuzzLabel string
}

// DefaultConfig returns default classifier configuration
func DefaultConfig() Config {
	return Config{
		FizzLabel: "Fizz",
		BuzzLabel: "Buzz",
	}
}

// New creates a new classifier
func New(cfg Config) *Classifier {
	if cfg.FizzLabel == "" {
		cfg.FizzLabel = "Fizz"
	}
	if cfg.BuzzLabel == "" {
		cfg.BuzzLabel = "Buzz"
	}
	return &Classifier{
		fizzLabel: cfg.FizzLabel,
		buzzLabel: cfg.BuzzLabel,
	}
}

// Classify maps n to exactly one variant. The combined case must be
// tested before the single divisors; checking 3 and 5 independently
// mislabels every multiple of 15. Total over all of int64: anything
// not divisible by 3 or 5 falls through to KindNumber, including zero
// and negatives (zero is divisible by 15 and classifies as FizzBuzz).
func (c *Classifier) Classify(n int64) Classification {
	kind := c.kindOf(n)

	return Classification{
		RequestID: uuid.New().String(),
		Timestamp: time.Now().UTC(),
		N:         n,
		Kind:      kind,
		Label:     c.render(kind, n),
		Reason:    reason(kind),
	}
}

func (c *Classifier) kindOf(n int64) Kind {
	switch {
	case n%15 == 0:
		return KindFizzBuzz
	case n%3 == 0:
		return KindFizz
	case n%5 == 0:
		return KindBuzz
	default:
		return KindNumber
	}
}

// render maps a variant to its label. It depends only on the kind and,
// for KindNumber, the payload: two integers sharing a non-number kind
// render identically.
func (c *Classifier) render(kind Kind, n int64) string {
	switch kind {
	case KindFizzBuzz:
		return c.fizzLabel + c.buzzLabel
	case KindFizz:
		return c.fizzLabel
	case KindBuzz:
		return c.buzzLabel
	default:
		return strconv.FormatInt(n, 10)
	}
}

// reason generates the explanation attached to each classification
func reason(kind Kind) string {
	switch kind {
	case KindFizzBuzz:
		return "divisible by both 3 and 5"
	case KindFizz:
		return "divisible by 3 only"
	case KindBuzz:
		return "divisible by 5 only"
	default:
		return "not divisible by 3 or 5"
	}
}

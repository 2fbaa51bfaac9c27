// Command fizzbuzz prints the rendered classification of each integer
// in a range, one per line, to standard output.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/muliwe/go-fizzbuzz-classifier/internal/classifier"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/sequence"
)

func main() {
	from := flag.Int64("from", sequence.DefaultFrom, "First integer of the range (inclusive)")
	to := flag.Int64("to", sequence.DefaultTo, "Last integer of the range (inclusive)")
	flag.Parse()

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}),
	))

	rng, err := sequence.NewRange(*from, *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage error: %v\n", err)
		os.Exit(1)
	}

	driver := sequence.New(classifier.New(classifier.DefaultConfig()))
	if err := driver.Write(context.Background(), rng, os.Stdout); err != nil {
		slog.Error("write failed", "err", err)
		os.Exit(1)
	}
}

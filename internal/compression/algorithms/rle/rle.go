// Package rle implements run-length encoding over symbol streams.
//
// A stream is reduced to a list of (symbol, count) runs. Runs are maximal, so
// no two neighbouring runs ever carry the same symbol, and the counts always
// add up to the length of the original stream.
package rle

import (
	"fmt"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

// MaxSymbols caps the length of any decoded stream.
const MaxSymbols = 1 << 28

// Run represents a single run of a particular symbol.
type Run struct {
	// Symbol is the repeated value.
	Symbol symbol.Symbol
	// Count is the number of times Symbol occurs in the run. A valid run always
	// has this be 1 or greater.
	Count int
}

// Compress scans the symbols once and merges consecutive equal values. An
// empty input gives an empty run list.
func Compress(symbols []symbol.Symbol) []Run {
	if len(symbols) == 0 {
		return []Run{}
	}

	runs := make([]Run, 0, 16)
	current := Run{Symbol: symbols[0], Count: 1}
	for _, s := range symbols[1:] {
		if s == current.Symbol {
			current.Count++
			continue
		}
		runs = append(runs, current)
		current = Run{Symbol: s, Count: 1}
	}
	return append(runs, current)
}

// Decompress expands every run in order. Runs with a count below 1, or counts
// adding up to more than MaxSymbols, are rejected with
// codecerr.ErrCorruptedData; nothing is returned in that case.
func Decompress(runs []Run) ([]symbol.Symbol, error) {
	total := 0
	for i, run := range runs {
		if run.Count < 1 {
			return nil, codecerr.ErrCorruptedData.WithMessage(
				fmt.Sprintf("run %d has count %d", i, run.Count))
		}
		if run.Count > MaxSymbols-total {
			return nil, codecerr.ErrCorruptedData.WithMessage(
				fmt.Sprintf("run %d with count %d exceeds %d symbols", i, run.Count, MaxSymbols))
		}
		total += run.Count
	}

	symbols := make([]symbol.Symbol, 0, total)
	for _, run := range runs {
		for j := 0; j < run.Count; j++ {
			symbols = append(symbols, run.Symbol)
		}
	}
	return symbols, nil
}

// Validate checks the invariants a run list produced by Compress always
// satisfies: positive counts and no two adjacent runs of the same symbol.
func Validate(runs []Run) error {
	for i, run := range runs {
		if run.Count < 1 {
			return codecerr.ErrCorruptedData.WithMessage(
				fmt.Sprintf("run %d has count %d", i, run.Count))
		}
		if i > 0 && runs[i-1].Symbol == run.Symbol {
			return codecerr.ErrCorruptedData.WithMessage(
				fmt.Sprintf("runs %d and %d share symbol %d", i-1, i, run.Symbol))
		}
	}
	return nil
}

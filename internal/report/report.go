// Package report renders comparison results and history records for people and
// spreadsheets.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/adilg123/rle-huffman-lzw/internal/compression"
	"github.com/fatih/color"
	"github.com/gocarina/gocsv"
)

var (
	passed = color.New(color.FgGreen, color.Bold).SprintFunc()
	failed = color.New(color.FgRed, color.Bold).SprintFunc()
)

// WriteCSV writes rows with a header line taken from their csv tags.
func WriteCSV[T any](w io.Writer, rows []T) error {
	return gocsv.Marshal(rows, w)
}

// ReadCSV parses rows written by WriteCSV.
func ReadCSV[T any](r io.Reader) ([]T, error) {
	var rows []T
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// FormatSize renders a byte count, e.g. "512 B" or "1.50 KB".
func FormatSize(size int) string {
	if size < 1024 && size > -1024 {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size) / 1024
	unit := sizeUnits[0]
	for _, next := range sizeUnits[1:] {
		if value < 1024 && value > -1024 {
			break
		}
		value /= 1024
		unit = next
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}

// Table writes an aligned comparison table. The verification column is last
// so terminal colors cannot break the alignment.
func Table(w io.Writer, results []compression.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tORIGINAL\tCOMPRESSED\tRATIO\tSAVED\tTIME\tVERIFIED")
	for _, r := range results {
		name := r.Algorithm
		if r.Baseline {
			name += " (baseline)"
		}
		verdict := passed("PASSED")
		if !r.IsCorrect {
			verdict = failed("FAILED")
			if r.Error != "" {
				verdict += " " + r.Error
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.2f%%\t%.4fs\t%s\n",
			name,
			FormatSize(r.OriginalSize),
			FormatSize(r.CompressedSize),
			r.CompressionRatio,
			r.SpaceSavingPercent,
			r.TotalTime,
			verdict,
		)
	}
	return tw.Flush()
}

// Best returns the correct, non-baseline result with the lowest ratio.
func Best(results []compression.Result) (compression.Result, bool) {
	var (
		best  compression.Result
		found bool
	)
	for _, r := range results {
		if !r.IsCorrect || r.Baseline {
			continue
		}
		if !found || r.CompressionRatio < best.CompressionRatio {
			best, found = r, true
		}
	}
	return best, found
}

package compression

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
	"github.com/hashicorp/go-multierror"
)

// Result is one row of a comparison.
type Result struct {
	Algorithm          string  `json:"algorithm" csv:"algorithm"`
	OriginalSize       int     `json:"original_size" csv:"original_size"`
	CompressedSize     int     `json:"compressed_size" csv:"compressed_size"`
	CompressionRatio   float64 `json:"compression_ratio" csv:"compression_ratio"`
	SpaceSavingPercent float64 `json:"space_saving_percent" csv:"space_saving_percent"`
	CompressionTime    float64 `json:"compression_time" csv:"compression_time_s"`
	DecompressionTime  float64 `json:"decompression_time" csv:"decompression_time_s"`
	TotalTime          float64 `json:"total_time" csv:"total_time_s"`
	IsCorrect          bool    `json:"is_correct" csv:"is_correct"`
	Baseline           bool    `json:"baseline" csv:"baseline"`
	Error              string  `json:"error,omitempty" csv:"error"`
}

// CompareOptions selects what Compare runs.
type CompareOptions struct {
	// Algorithms to run, in the order results are returned. Empty means all
	// supported algorithms.
	Algorithms []string
	// Baselines appends zstd and xz rows for reference.
	Baselines bool
	// Progress, if set, receives every row as soon as it is ready. Calls are
	// serialized.
	Progress func(Result)
}

// Compare runs every selected algorithm on the same symbols, one goroutine per
// algorithm, and checks that each one restores the input exactly. A failing
// algorithm still gets a row, with Error set; the returned error aggregates
// all such failures.
func Compare(ctx context.Context, symbols []symbol.Symbol, options CompareOptions) ([]Result, error) {
	algorithms := options.Algorithms
	if len(algorithms) == 0 {
		algorithms = GetSupportedAlgorithms()
	}
	for _, algorithm := range algorithms {
		if !IsValidAlgorithm(algorithm) {
			return nil, fmt.Errorf("unsupported algorithm: %s", algorithm)
		}
	}

	originalSize := SymbolStreamSize(symbols)
	jobs := make([]func() Result, 0, len(algorithms)+len(baselines))
	for _, algorithm := range algorithms {
		factory := factoryMap[algorithm]
		name := algorithm
		jobs = append(jobs, func() Result {
			return measure(name, originalSize, symbols, factory)
		})
	}
	if options.Baselines {
		raw := renderBytes(symbols)
		for _, b := range baselines {
			b := b
			jobs = append(jobs, func() Result {
				return measureBaseline(b, originalSize, raw)
			})
		}
	}

	results := make([]Result, len(jobs))
	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		errs *multierror.Error
	)
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job func() Result) {
			defer wg.Done()
			var result Result
			if err := ctx.Err(); err != nil {
				result = Result{Error: err.Error()}
			} else {
				result = job()
			}
			if result.Algorithm == "" {
				result.Algorithm = jobName(algorithms, i)
			}

			lock.Lock()
			defer lock.Unlock()
			results[i] = result
			if result.Error != "" {
				errs = multierror.Append(errs, fmt.Errorf("%s: %s", result.Algorithm, result.Error))
			}
			if options.Progress != nil {
				options.Progress(result)
			}
		}(i, job)
	}
	wg.Wait()

	return results, errs.ErrorOrNil()
}

func jobName(algorithms []string, i int) string {
	if i < len(algorithms) {
		return algorithms[i]
	}
	return baselines[i-len(algorithms)].name
}

func measure(algorithm string, originalSize int, symbols []symbol.Symbol, factory AlgorithmFactory) Result {
	result := Result{Algorithm: algorithm, OriginalSize: originalSize}

	start := time.Now()
	compressed, err := factory.CompressToBytes(symbols)
	result.CompressionTime = time.Since(start).Seconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start = time.Now()
	restored, err := factory.DecompressFromBytes(compressed)
	result.DecompressionTime = time.Since(start).Seconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	finish(&result, len(compressed))
	result.IsCorrect = symbol.Equal(symbols, restored)
	if !result.IsCorrect {
		result.Error = "decompressed output differs from input"
	}
	return result
}

// finish derives the size and time totals of a measured row.
func finish(result *Result, compressedSize int) {
	result.CompressedSize = compressedSize
	result.TotalTime = result.CompressionTime + result.DecompressionTime
	result.CompressionRatio = 1
	if result.OriginalSize > 0 {
		result.CompressionRatio = float64(compressedSize) / float64(result.OriginalSize)
		result.SpaceSavingPercent = (1 - result.CompressionRatio) * 100
	}
}

// SymbolStreamSize is the number of bytes the symbols occupy uncompressed: one
// per symbol when they all fit in a byte, four otherwise.
func SymbolStreamSize(symbols []symbol.Symbol) int {
	if symbol.FitsInByte(symbols) {
		return len(symbols)
	}
	return 4 * len(symbols)
}

// renderBytes gives the baselines something byte-shaped to chew on: the bytes
// themselves, or UTF-8 text when some symbol is a wider code point.
func renderBytes(symbols []symbol.Symbol) []byte {
	if data, err := symbol.ToBytes(symbols); err == nil {
		return data
	}
	return []byte(symbol.ToString(symbols))
}

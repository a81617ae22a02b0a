package compression_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/adilg123/rle-huffman-lzw/internal/compression"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"rle", "huffman", "lzw"}, compression.GetSupportedAlgorithms())
	for _, algorithm := range compression.SupportedAlgorithms {
		assert.True(t, compression.IsValidAlgorithm(algorithm))
		factory, err := compression.Factory(algorithm)
		require.NoError(t, err)
		assert.NotEmpty(t, factory.Description())
		assert.NotEmpty(t, factory.Extension())
	}

	assert.False(t, compression.IsValidAlgorithm("gzip"))
	_, err := compression.Factory("gzip")
	assert.Error(t, err)
}

func TestGetSupportedAlgorithms__ReturnsCopy(t *testing.T) {
	algorithms := compression.GetSupportedAlgorithms()
	algorithms[0] = "mangled"
	assert.Equal(t, compression.RLE, compression.GetSupportedAlgorithms()[0])
}

func TestCompressDecompress(t *testing.T) {
	inputs := map[string][]byte{
		"empty":  {},
		"runs":   bytes.Repeat([]byte{7}, 1000),
		"text":   []byte(strings.Repeat("the quick brown fox ", 50)),
		"binary": {0, 255, 0, 255, 1, 2, 3, 4, 5, 0, 0, 0},
	}
	for _, algorithm := range compression.SupportedAlgorithms {
		for name, input := range inputs {
			t.Run(algorithm+"/"+name, func(t *testing.T) {
				compressed, stats, err := compression.Compress(input, compression.Options{Algorithm: algorithm})
				require.NoError(t, err)
				assert.Equal(t, len(input), stats.OriginalSize)
				assert.Equal(t, len(compressed), stats.ProcessedSize)
				assert.Equal(t, algorithm, stats.Algorithm)

				restored, dstats, err := compression.Decompress(compressed, compression.Options{Algorithm: algorithm})
				require.NoError(t, err)
				assert.Equal(t, len(input), len(restored))
				if len(input) > 0 {
					assert.Equal(t, input, restored)
				}
				assert.InDelta(t, stats.CompressionRatio, dstats.CompressionRatio, 1e-9)
			})
		}
	}
}

func TestCompress__Stats(t *testing.T) {
	input := bytes.Repeat([]byte{'a'}, 4096)
	compressed, stats, err := compression.Compress(input, compression.Options{Algorithm: compression.RLE})
	require.NoError(t, err)

	assert.InDelta(t, float64(len(compressed))/4096, stats.CompressionRatio, 1e-9)
	assert.InDelta(t, (1-stats.CompressionRatio)*100, stats.SpaceSavings, 1e-9)
	assert.Greater(t, stats.SpaceSavings, 90.0)
}

func TestCompress__UnknownAlgorithm(t *testing.T) {
	_, _, err := compression.Compress([]byte("abc"), compression.Options{Algorithm: "brotli"})
	assert.Error(t, err)
	_, _, err = compression.Decompress([]byte("abc"), compression.Options{Algorithm: ""})
	assert.Error(t, err)
}

func TestDecompress__Garbage(t *testing.T) {
	for _, algorithm := range compression.SupportedAlgorithms {
		_, _, err := compression.Decompress([]byte{0xc1, 0xc1, 0xc1}, compression.Options{Algorithm: algorithm})
		assert.Error(t, err, algorithm)
	}
}

func TestCompare(t *testing.T) {
	symbols := symbol.FromString(strings.Repeat("aaaabbbccd", 100))

	var seen []string
	results, err := compression.Compare(context.Background(), symbols, compression.CompareOptions{
		Progress: func(r compression.Result) { seen = append(seen, r.Algorithm) },
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.ElementsMatch(t, compression.SupportedAlgorithms, seen)

	for i, result := range results {
		assert.Equal(t, compression.SupportedAlgorithms[i], result.Algorithm)
		assert.Equal(t, 1000, result.OriginalSize)
		assert.True(t, result.IsCorrect, result.Algorithm)
		assert.Empty(t, result.Error)
		assert.False(t, result.Baseline)
		assert.Positive(t, result.CompressedSize)
		assert.InDelta(t, float64(result.CompressedSize)/1000, result.CompressionRatio, 1e-9)
		assert.InDelta(t, result.CompressionTime+result.DecompressionTime, result.TotalTime, 1e-9)
	}
}

func TestCompare__SelectionOrderAndBaselines(t *testing.T) {
	symbols := symbol.FromBytes(bytes.Repeat([]byte("0123456789"), 200))

	results, err := compression.Compare(context.Background(), symbols, compression.CompareOptions{
		Algorithms: []string{compression.LZW, compression.RLE},
		Baselines:  true,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Algorithm
		assert.True(t, r.IsCorrect, r.Algorithm)
	}
	assert.Equal(t, []string{"lzw", "rle", "zstd", "xz"}, names)
	assert.False(t, results[1].Baseline)
	assert.True(t, results[2].Baseline)
	assert.True(t, results[3].Baseline)
}

func TestCompare__WideSymbols(t *testing.T) {
	symbols := symbol.FromString("日日日本本語")

	results, err := compression.Compare(context.Background(), symbols, compression.CompareOptions{})
	require.Error(t, err)
	require.Len(t, results, 3)
	assert.Contains(t, err.Error(), "lzw")

	for _, result := range results {
		assert.Equal(t, 24, result.OriginalSize)
		if result.Algorithm == compression.LZW {
			assert.False(t, result.IsCorrect)
			assert.NotEmpty(t, result.Error)
		} else {
			assert.True(t, result.IsCorrect, result.Algorithm)
		}
	}
}

func TestCompare__UnknownAlgorithm(t *testing.T) {
	results, err := compression.Compare(context.Background(), nil, compression.CompareOptions{
		Algorithms: []string{compression.RLE, "bzip2"},
	})
	assert.Error(t, err)
	assert.Nil(t, results)
}

func TestCompare__Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := compression.Compare(ctx, symbol.FromString("abc"), compression.CompareOptions{})
	require.Error(t, err)
	require.Len(t, results, 3)
	for i, result := range results {
		assert.Equal(t, compression.SupportedAlgorithms[i], result.Algorithm)
		assert.Equal(t, context.Canceled.Error(), result.Error)
	}
}

func TestSymbolStreamSize(t *testing.T) {
	assert.Equal(t, 0, compression.SymbolStreamSize(nil))
	assert.Equal(t, 3, compression.SymbolStreamSize([]symbol.Symbol{0, 1, 255}))
	assert.Equal(t, 12, compression.SymbolStreamSize([]symbol.Symbol{0, 1, 256}))
}

package compression

import (
	"fmt"
	"io"
	"time"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/algorithms/huffman"
	"github.com/adilg123/rle-huffman-lzw/internal/compression/algorithms/lzw"
	"github.com/adilg123/rle-huffman-lzw/internal/compression/algorithms/rle"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

const (
	RLE     = "rle"
	Huffman = "huffman"
	LZW     = "lzw"
)

// SupportedAlgorithms contains all supported compression algorithms
var SupportedAlgorithms = []string{
	RLE,
	Huffman,
	LZW,
}

// Options contains compression/decompression options
type Options struct {
	Algorithm string
}

// Stats contains compression statistics
type Stats struct {
	OriginalSize     int           `json:"original_size"`
	ProcessedSize    int           `json:"processed_size"`
	CompressionRatio float64       `json:"compression_ratio"`
	SpaceSavings     float64       `json:"space_savings"`
	Duration         time.Duration `json:"duration_ns"`
	Algorithm        string        `json:"algorithm"`
}

// AlgorithmFactory defines the interface for compression algorithms
type AlgorithmFactory interface {
	NewCompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser)
	NewDecompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser)
	CompressToBytes(symbols []symbol.Symbol) ([]byte, error)
	DecompressFromBytes(data []byte) ([]symbol.Symbol, error)
	Description() string
	Extension() string
}

// factoryMap maps algorithm names to their factories
var factoryMap = map[string]AlgorithmFactory{
	RLE:     &RLEFactory{},
	Huffman: &HuffmanFactory{},
	LZW:     &LZWFactory{},
}

// Factory implementations
type RLEFactory struct{}

func (f *RLEFactory) NewCompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return rle.NewCompressionReaderAndWriter()
}
func (f *RLEFactory) NewDecompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return rle.NewDecompressionReaderAndWriter()
}
func (f *RLEFactory) CompressToBytes(symbols []symbol.Symbol) ([]byte, error) {
	return rle.CompressToBytes(symbols)
}
func (f *RLEFactory) DecompressFromBytes(data []byte) ([]symbol.Symbol, error) {
	return rle.DecompressFromBytes(data)
}
func (f *RLEFactory) Description() string {
	return "Run Length Encoding - (value, count) pairs, best for long runs of repeated values"
}
func (f *RLEFactory) Extension() string { return "rle" }

type HuffmanFactory struct{}

func (f *HuffmanFactory) NewCompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return huffman.NewCompressionReaderAndWriter()
}
func (f *HuffmanFactory) NewDecompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return huffman.NewDecompressionReaderAndWriter()
}
func (f *HuffmanFactory) CompressToBytes(symbols []symbol.Symbol) ([]byte, error) {
	return huffman.CompressToBytes(symbols)
}
func (f *HuffmanFactory) DecompressFromBytes(data []byte) ([]symbol.Symbol, error) {
	return huffman.DecompressFromBytes(data)
}
func (f *HuffmanFactory) Description() string {
	return "Huffman coding - lossless data compression using variable-length prefix codes"
}
func (f *HuffmanFactory) Extension() string { return "huff" }

type LZWFactory struct{}

func (f *LZWFactory) NewCompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return lzw.NewCompressionReaderAndWriter()
}
func (f *LZWFactory) NewDecompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return lzw.NewDecompressionReaderAndWriter()
}
func (f *LZWFactory) CompressToBytes(symbols []symbol.Symbol) ([]byte, error) {
	return lzw.CompressToBytes(symbols)
}
func (f *LZWFactory) DecompressFromBytes(data []byte) ([]symbol.Symbol, error) {
	return lzw.DecompressFromBytes(data)
}
func (f *LZWFactory) Description() string {
	return "Lempel-Ziv-Welch - adaptive dictionary of repeated patterns, unbounded code width"
}
func (f *LZWFactory) Extension() string { return "lzw" }

// IsValidAlgorithm checks if the provided algorithm is supported
func IsValidAlgorithm(algorithm string) bool {
	_, exists := factoryMap[algorithm]
	return exists
}

// GetSupportedAlgorithms returns a list of supported algorithms
func GetSupportedAlgorithms() []string {
	return append([]string{}, SupportedAlgorithms...)
}

// Factory returns the factory registered for algorithm.
func Factory(algorithm string) (AlgorithmFactory, error) {
	factory, exists := factoryMap[algorithm]
	if !exists {
		return nil, fmt.Errorf("unsupported algorithm: %s", algorithm)
	}
	return factory, nil
}

// Compress compresses raw bytes, one symbol per byte, with the given algorithm.
func Compress(data []byte, options Options) ([]byte, *Stats, error) {
	factory, err := Factory(options.Algorithm)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	reader, writer := factory.NewCompressionReaderAndWriter()
	compressedData, err := processData(data, reader, writer)
	if err != nil {
		return nil, nil, fmt.Errorf("compression failed: %w", err)
	}

	stats := newStats(options.Algorithm, len(data), len(compressedData), time.Since(start))
	return compressedData, stats, nil
}

// Decompress decompresses data using the specified algorithm. The stats use
// the restored output as OriginalSize and the compressed input as
// ProcessedSize, so the ratio matches the one reported by Compress.
func Decompress(data []byte, options Options) ([]byte, *Stats, error) {
	factory, err := Factory(options.Algorithm)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	reader, writer := factory.NewDecompressionReaderAndWriter()
	decompressedData, err := processData(data, reader, writer)
	if err != nil {
		return nil, nil, fmt.Errorf("decompression failed: %w", err)
	}

	stats := newStats(options.Algorithm, len(decompressedData), len(data), time.Since(start))
	return decompressedData, stats, nil
}

// newStats fills in ratio and savings for an original/compressed size pair.
// The ratio is compressed/original; empty input has ratio 1 and no savings.
func newStats(algorithm string, originalSize, compressedSize int, elapsed time.Duration) *Stats {
	stats := &Stats{
		OriginalSize:     originalSize,
		ProcessedSize:    compressedSize,
		CompressionRatio: 1,
		Duration:         elapsed,
		Algorithm:        algorithm,
	}
	if originalSize > 0 {
		stats.CompressionRatio = float64(compressedSize) / float64(originalSize)
		stats.SpaceSavings = (1 - stats.CompressionRatio) * 100
	}
	return stats
}

// processData writes the whole input, closes the writer so the transform runs,
// then drains the reader.
func processData(inputData []byte, reader io.ReadCloser, writer io.WriteCloser) ([]byte, error) {
	defer reader.Close()

	if _, err := writer.Write(inputData); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

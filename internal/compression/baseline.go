package compression

import (
	"bytes"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Baseline row names.
const (
	Zstd = "zstd"
	XZ   = "xz"
)

// baseline is a general-purpose byte compressor run next to the symbol codecs
// for reference.
type baseline struct {
	name       string
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

var baselines = []baseline{
	{name: Zstd, compress: zstdCompress, decompress: zstdDecompress},
	{name: XZ, compress: xzCompress, decompress: xzDecompress},
}

// GetBaselines returns the names of the reference compressors.
func GetBaselines() []string {
	names := make([]string, len(baselines))
	for i, b := range baselines {
		names[i] = b.name
	}
	return names
}

func measureBaseline(b baseline, originalSize int, raw []byte) Result {
	result := Result{Algorithm: b.name, OriginalSize: originalSize, Baseline: true}

	start := time.Now()
	compressed, err := b.compress(raw)
	result.CompressionTime = time.Since(start).Seconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start = time.Now()
	restored, err := b.decompress(compressed)
	result.DecompressionTime = time.Since(start).Seconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	finish(&result, len(compressed))
	result.IsCorrect = bytes.Equal(raw, restored)
	if !result.IsCorrect {
		result.Error = "decompressed output differs from input"
	}
	return result
}

func zstdCompress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return decoder.DecodeAll(data, nil)
}

func xzCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xzDecompress(data []byte) ([]byte, error) {
	reader, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

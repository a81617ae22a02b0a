package lzw

import (
	"io"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/stream"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

func NewCompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return stream.New(func(input []byte) ([]byte, error) {
		return CompressToBytes(symbol.FromBytes(input))
	})
}

func NewDecompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	return stream.New(func(input []byte) ([]byte, error) {
		symbols, err := DecompressFromBytes(input)
		if err != nil {
			return nil, err
		}
		return symbol.ToBytes(symbols)
	})
}

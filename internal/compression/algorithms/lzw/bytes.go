package lzw

import (
	"github.com/adilg123/rle-huffman-lzw/internal/compression/serial"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

// CompressToBytes compresses the symbols and serializes the code list. Symbols
// above 255 are refused, never folded into range.
func CompressToBytes(symbols []symbol.Symbol) ([]byte, error) {
	codes, err := Compress(symbols)
	if err != nil {
		return nil, err
	}
	return serial.Marshal(codes)
}

// CompressText is CompressToBytes for a string whose characters are all in the
// Latin-1 range.
func CompressText(text string) ([]byte, error) {
	return CompressToBytes(symbol.FromString(text))
}

func DecompressFromBytes(data []byte) ([]symbol.Symbol, error) {
	var codes []int
	if err := serial.Unmarshal(data, &codes); err != nil {
		return nil, err
	}
	return Decompress(codes)
}

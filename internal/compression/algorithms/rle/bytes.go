package rle

import (
	"github.com/adilg123/rle-huffman-lzw/internal/compression/serial"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

// wireRun is how a run is laid out on disk: a two-element array.
type wireRun struct {
	_struct struct{}      `codec:",toarray"`
	Symbol  symbol.Symbol `codec:"symbol"`
	Count   int           `codec:"count"`
}

// CompressToBytes compresses the symbols and serializes the run list.
func CompressToBytes(symbols []symbol.Symbol) ([]byte, error) {
	runs := Compress(symbols)
	wire := make([]wireRun, len(runs))
	for i, run := range runs {
		wire[i] = wireRun{Symbol: run.Symbol, Count: run.Count}
	}
	return serial.Marshal(wire)
}

// DecompressFromBytes is the inverse of CompressToBytes. A payload that can't
// be parsed fails with codecerr.ErrMalformedData; one that parses but isn't a
// valid run list fails with codecerr.ErrCorruptedData.
func DecompressFromBytes(data []byte) ([]symbol.Symbol, error) {
	var wire []wireRun
	if err := serial.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	runs := make([]Run, len(wire))
	for i, w := range wire {
		runs[i] = Run{Symbol: w.Symbol, Count: w.Count}
	}
	if err := Validate(runs); err != nil {
		return nil, err
	}
	return Decompress(runs)
}

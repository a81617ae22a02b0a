// Package lzw implements Lempel-Ziv-Welch compression over byte-range symbols.
//
// Both sides start from the same 256 single-symbol entries and add one entry
// per code, so the dictionary is never transmitted. Codes are plain ints with
// no width ceiling and no dictionary reset: the dictionary grows for as long
// as the input does.
package lzw

import (
	"fmt"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

// AlphabetSize is the number of seed entries; it is also the first code
// assigned to a multi-symbol sequence.
const AlphabetSize = 256

// Compress emits one code per longest known prefix. Every symbol must be at
// most symbol.MaxByte, otherwise codecerr.ErrUnsupportedSymbol is returned.
func Compress(symbols []symbol.Symbol) ([]int, error) {
	if len(symbols) == 0 {
		return []int{}, nil
	}

	// Keys are the symbol sequences rendered one byte per symbol.
	dictionary := make(map[string]int, AlphabetSize+len(symbols)/2)
	for i := 0; i < AlphabetSize; i++ {
		dictionary[string([]byte{byte(i)})] = i
	}
	nextCode := AlphabetSize

	codes := make([]int, 0, len(symbols)/2+1)
	w := make([]byte, 0, 64)
	for i, s := range symbols {
		if s > symbol.MaxByte {
			return nil, codecerr.ErrUnsupportedSymbol.WithMessage(
				fmt.Sprintf("symbol %d at index %d is outside the 0-255 LZW alphabet", s, i))
		}
		wc := append(w, byte(s))
		if _, ok := dictionary[string(wc)]; ok {
			w = wc
			continue
		}
		codes = append(codes, dictionary[string(w)])
		dictionary[string(wc)] = nextCode
		nextCode++
		w = append(w[:0], byte(s))
	}
	if len(w) > 0 {
		codes = append(codes, dictionary[string(w)])
	}
	return codes, nil
}

// Decompress rebuilds the dictionary in lock-step with the encoder. A code that
// is not yet in the dictionary is only valid when it is the very next code to
// be assigned, in which case it stands for w + w[0]. Anything else fails with
// codecerr.ErrCorruptedStream.
func Decompress(codes []int) ([]symbol.Symbol, error) {
	if len(codes) == 0 {
		return []symbol.Symbol{}, nil
	}

	dictionary := make([][]byte, AlphabetSize, AlphabetSize+len(codes))
	for i := range dictionary {
		dictionary[i] = []byte{byte(i)}
	}

	first := codes[0]
	if first < 0 || first >= AlphabetSize {
		return nil, codecerr.ErrCorruptedStream.WithMessage(
			fmt.Sprintf("first code %d is not a single symbol", first))
	}
	w := dictionary[first]
	output := make([]byte, 0, len(codes)*2)
	output = append(output, w...)

	for i, k := range codes[1:] {
		var entry []byte
		switch {
		case k >= 0 && k < len(dictionary):
			entry = dictionary[k]
		case k == len(dictionary):
			entry = make([]byte, len(w)+1)
			copy(entry, w)
			entry[len(w)] = w[0]
		default:
			return nil, codecerr.ErrCorruptedStream.WithMessage(
				fmt.Sprintf("bad code %d at index %d (next code is %d)", k, i+1, len(dictionary)))
		}
		output = append(output, entry...)

		added := make([]byte, len(w)+1)
		copy(added, w)
		added[len(w)] = entry[0]
		dictionary = append(dictionary, added)
		w = entry
	}
	return symbol.FromBytes(output), nil
}

// Package symbol defines the alphabet element every codec operates on, along
// with the conversions used at the edges of the system. The codecs themselves
// never convert; they take and return []Symbol.
package symbol

import (
	"fmt"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
)

// Symbol is either a byte value (0-255) or a Unicode code point.
type Symbol uint32

// MaxByte is the largest symbol that can be rendered as a single byte.
const MaxByte Symbol = 0xFF

func FromBytes(data []byte) []Symbol {
	symbols := make([]Symbol, len(data))
	for i, b := range data {
		symbols[i] = Symbol(b)
	}
	return symbols
}

// ToBytes fails with codecerr.ErrUnsupportedSymbol if any symbol is above
// MaxByte.
func ToBytes(symbols []Symbol) ([]byte, error) {
	data := make([]byte, len(symbols))
	for i, s := range symbols {
		if s > MaxByte {
			return nil, codecerr.ErrUnsupportedSymbol.WithMessage(
				fmt.Sprintf("symbol %d at index %d does not fit in a byte", s, i))
		}
		data[i] = byte(s)
	}
	return data, nil
}

// FromString returns the code points of text. Invalid UTF-8 sequences become
// U+FFFD, as with any range over a string.
func FromString(text string) []Symbol {
	symbols := make([]Symbol, 0, len(text))
	for _, r := range text {
		symbols = append(symbols, Symbol(r))
	}
	return symbols
}

func ToString(symbols []Symbol) string {
	runes := make([]rune, len(symbols))
	for i, s := range symbols {
		runes[i] = rune(s)
	}
	return string(runes)
}

// FitsInByte reports whether every symbol is at most MaxByte.
func FitsInByte(symbols []Symbol) bool {
	for _, s := range symbols {
		if s > MaxByte {
			return false
		}
	}
	return true
}

// Equal reports whether a and b hold the same symbols in the same order.
func Equal(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Package huffman implements Huffman coding over symbol streams.
//
// Compression counts symbol frequencies, builds a prefix-free code from them
// and concatenates the code of every symbol into a bit string. The byte-level
// form stores only the frequency table next to the packed bits; the decoder
// rebuilds the exact same tree from it, so code tables never travel.
package huffman

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

// BitString is a sequence of '0' and '1' characters.
type BitString string

// CodeTable maps a symbol to its code.
type CodeTable map[symbol.Symbol]BitString

// Compress encodes the symbols. Empty input gives an empty bit string and an
// empty table.
func Compress(symbols []symbol.Symbol) (BitString, CodeTable) {
	if len(symbols) == 0 {
		return "", CodeTable{}
	}

	codes := BuildCodes(BuildTree(FrequencyTableOf(symbols)))
	var output strings.Builder
	for _, s := range symbols {
		output.WriteString(string(codes[s]))
	}
	return BitString(output.String()), codes
}

// Decompress decodes bits with the given table. Bits accumulate in a buffer
// and a symbol is emitted as soon as the buffer equals a code; this is only
// unambiguous for a prefix-free table, so any other table is refused with
// codecerr.ErrInvalidPrefixCode. The same error is returned when the bits run
// out with a partial code left in the buffer.
func Decompress(bits BitString, codes CodeTable) ([]symbol.Symbol, error) {
	if len(bits) == 0 {
		return []symbol.Symbol{}, nil
	}
	if err := CheckPrefixFree(codes); err != nil {
		return nil, err
	}

	reverse := make(map[BitString]symbol.Symbol, len(codes))
	for s, code := range codes {
		reverse[code] = s
	}

	decoded := make([]symbol.Symbol, 0, len(bits)/2)
	start := 0
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return nil, codecerr.ErrInvalidPrefixCode.WithMessage(
				fmt.Sprintf("byte %q at offset %d is not a bit", bits[i], i))
		}
		if s, ok := reverse[bits[start:i+1]]; ok {
			decoded = append(decoded, s)
			start = i + 1
		}
	}
	if start != len(bits) {
		return nil, codecerr.ErrInvalidPrefixCode.WithMessage(
			fmt.Sprintf("%d trailing bits match no code", len(bits)-start))
	}
	return decoded, nil
}

// CheckPrefixFree verifies that every code is a non-empty bit string and that
// no code is a prefix of another (which includes duplicates).
func CheckPrefixFree(codes CodeTable) error {
	sorted := make([]string, 0, len(codes))
	for s, code := range codes {
		if len(code) == 0 {
			return codecerr.ErrInvalidPrefixCode.WithMessage(
				fmt.Sprintf("symbol %d has an empty code", s))
		}
		if strings.Trim(string(code), "01") != "" {
			return codecerr.ErrInvalidPrefixCode.WithMessage(
				fmt.Sprintf("code %q for symbol %d is not a bit string", code, s))
		}
		sorted = append(sorted, string(code))
	}
	// After sorting, a code that prefixes others sits right before them.
	sort.Strings(sorted)
	for i := 1; i < len(sorted); i++ {
		if strings.HasPrefix(sorted[i], sorted[i-1]) {
			return codecerr.ErrInvalidPrefixCode.WithMessage(
				fmt.Sprintf("code %q is a prefix of %q", sorted[i-1], sorted[i]))
		}
	}
	return nil
}

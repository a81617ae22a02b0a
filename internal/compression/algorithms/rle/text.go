package rle

import (
	"strconv"
	"strings"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
)

// CompressString encodes text as "<count><character>" repeated, with the count
// in ASCII decimal and no separators: "aaab" becomes "3a1b".
//
// Known limitation: the format cannot tell a count digit from a data digit.
// Text containing ASCII digits does not round-trip; "112" encodes to "2112",
// which reads back as one dangling count and fails. Byte-oriented callers
// should use Compress/CompressToBytes, which have no such ambiguity.
func CompressString(text string) string {
	if text == "" {
		return ""
	}

	runes := []rune(text)
	var out strings.Builder
	for i := 0; i < len(runes); i++ {
		count := 1
		for i+1 < len(runes) && runes[i] == runes[i+1] {
			count++
			i++
		}
		out.WriteString(strconv.Itoa(count))
		out.WriteRune(runes[i])
	}
	return out.String()
}

// DecompressString reverses CompressString. Starting from a run boundary,
// ASCII digits accumulate into the count and the first non-digit is the run's
// character. A character with no count in front of it, digits left over at
// the end, or a total length past MaxSymbols fail with
// codecerr.ErrMalformedData.
func DecompressString(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	var out strings.Builder
	var count strings.Builder
	total := 0
	for _, r := range encoded {
		if r >= '0' && r <= '9' {
			count.WriteRune(r)
			continue
		}
		if count.Len() == 0 {
			return "", codecerr.ErrMalformedData.WithMessage(
				"character " + strconv.QuoteRune(r) + " has no run count")
		}
		n, err := strconv.Atoi(count.String())
		if err != nil {
			return "", codecerr.ErrMalformedData.Wrap(err)
		}
		if n > MaxSymbols-total {
			return "", codecerr.ErrMalformedData.WithMessage(
				"run count " + count.String() + " exceeds " + strconv.Itoa(MaxSymbols) + " characters")
		}
		total += n
		out.WriteString(strings.Repeat(string(r), n))
		count.Reset()
	}
	if count.Len() != 0 {
		return "", codecerr.ErrMalformedData.WithMessage(
			"run count " + count.String() + " has no character")
	}
	return out.String(), nil
}

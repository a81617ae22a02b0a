package huffman

import (
	"bytes"
	"fmt"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
	"github.com/adilg123/rle-huffman-lzw/internal/compression/serial"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
	"github.com/icza/bitio"
)

// container is the serialized form. Padding is the number of zero bits added
// to fill the last byte, except that 8 means no padding was needed.
type container struct {
	Padding int                   `codec:"padding"`
	Freq    map[symbol.Symbol]int `codec:"freq"`
	Data    []byte                `codec:"data"`
}

// CompressToBytes compresses the symbols and serializes the padding, the
// frequency table and the packed bits. Empty input gives empty output.
func CompressToBytes(symbols []symbol.Symbol) ([]byte, error) {
	if len(symbols) == 0 {
		return []byte{}, nil
	}

	bits, _ := Compress(symbols)
	data, padding, err := Pack(bits)
	if err != nil {
		return nil, err
	}
	return serial.Marshal(container{
		Padding: padding,
		Freq:    FrequencyTableOf(symbols),
		Data:    data,
	})
}

// DecompressFromBytes rebuilds the tree from the stored frequencies, unpacks
// the bits, drops the padding and decodes. Empty input gives empty output.
func DecompressFromBytes(data []byte) ([]symbol.Symbol, error) {
	if len(data) == 0 {
		return []symbol.Symbol{}, nil
	}

	var c container
	if err := serial.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	total, err := checkContainer(c)
	if err != nil {
		return nil, err
	}

	codes := BuildCodes(BuildTree(c.Freq))
	bits, err := Unpack(c.Data, c.Padding)
	if err != nil {
		return nil, err
	}
	decoded, err := Decompress(bits, codes)
	if err != nil {
		return nil, err
	}
	if len(decoded) != total {
		return nil, codecerr.ErrCorruptedData.WithMessage(
			fmt.Sprintf("decoded %d symbols, frequency table accounts for %d", len(decoded), total))
	}
	return decoded, nil
}

func checkContainer(c container) (int, error) {
	if c.Padding < 1 || c.Padding > 8 {
		return 0, codecerr.ErrCorruptedData.WithMessage(
			fmt.Sprintf("padding %d is outside 1..8", c.Padding))
	}
	if len(c.Freq) == 0 || len(c.Data) == 0 {
		return 0, codecerr.ErrCorruptedData.WithMessage("empty frequency table or bit data")
	}
	total := 0
	for s, count := range c.Freq {
		if count < 1 {
			return 0, codecerr.ErrCorruptedData.WithMessage(
				fmt.Sprintf("symbol %d has frequency %d", s, count))
		}
		total += count
	}
	return total, nil
}

// Pack writes the bits eight to a byte, most significant bit first, and fills
// the last byte with zeros. The returned padding is 8-len(bits)%8, so a bit
// string whose length is a multiple of 8 reports 8, not 0.
func Pack(bits BitString) ([]byte, int, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for i := 0; i < len(bits); i++ {
		if err := w.WriteBool(bits[i] == '1'); err != nil {
			return nil, 0, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), 8 - len(bits)%8, nil
}

// Unpack is the inverse of Pack: it expands every byte to eight bits and drops
// the last padding bits. A padding of 8 drops nothing.
func Unpack(data []byte, padding int) (BitString, error) {
	if padding < 1 || padding > 8 {
		return "", codecerr.ErrCorruptedData.WithMessage(
			fmt.Sprintf("padding %d is outside 1..8", padding))
	}
	n := len(data)*8 - padding%8
	if n < 0 {
		return "", codecerr.ErrCorruptedData.WithMessage("padding exceeds the bit data")
	}

	r := bitio.NewReader(bytes.NewReader(data))
	out := make([]byte, n)
	for i := range out {
		bit, err := r.ReadBool()
		if err != nil {
			return "", codecerr.ErrMalformedData.Wrap(err)
		}
		if bit {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return BitString(out), nil
}

package symbol_test

import (
	"testing"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesRoundTrip(t *testing.T) {
	data := []byte{0, 1, 127, 128, 255}
	symbols := symbol.FromBytes(data)
	assert.Equal(t, []symbol.Symbol{0, 1, 127, 128, 255}, symbols)

	back, err := symbol.ToBytes(symbols)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestToBytes__OutOfRange(t *testing.T) {
	_, err := symbol.ToBytes([]symbol.Symbol{65, 256})
	assert.ErrorIs(t, err, codecerr.ErrUnsupportedSymbol)
}

func TestStringRoundTrip(t *testing.T) {
	text := "héllo, 世界"
	symbols := symbol.FromString(text)
	assert.Len(t, symbols, 9)
	assert.Equal(t, symbol.Symbol('世'), symbols[7])
	assert.Equal(t, text, symbol.ToString(symbols))
	assert.False(t, symbol.FitsInByte(symbols))
	assert.True(t, symbol.FitsInByte(symbol.FromString("plain")))
}

func TestEmpty(t *testing.T) {
	assert.Empty(t, symbol.FromBytes(nil))
	assert.Empty(t, symbol.FromString(""))
	assert.Equal(t, "", symbol.ToString(nil))
	assert.True(t, symbol.Equal(nil, []symbol.Symbol{}))
	assert.False(t, symbol.Equal([]symbol.Symbol{1}, []symbol.Symbol{2}))
}

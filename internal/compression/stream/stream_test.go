package stream_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/adilg123/rle-huffman-lzw/internal/compression/stream"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reverse(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	for i, b := range input {
		out[len(input)-1-i] = b
	}
	return out, nil
}

func TestStream__TransformRunsOnClose(t *testing.T) {
	reader, writer := stream.New(reverse)

	_, err := writer.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = writer.Write([]byte("def"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = reader.Read(buf)
	assert.ErrorIs(t, err, stream.ErrNotClosed)

	require.NoError(t, writer.Close())

	output := make([]byte, 6)
	n, err := io.Copy(bytewriter.New(output), reader)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	assert.Equal(t, []byte("fedcba"), output)
	assert.NoError(t, reader.Close())
}

func TestStream__WriteAfterClose(t *testing.T) {
	_, writer := stream.New(reverse)
	require.NoError(t, writer.Close())

	_, err := writer.Write([]byte{1})
	assert.ErrorIs(t, err, stream.ErrAlreadyClosed)
	assert.NoError(t, writer.Close(), "closing twice should be a no-op")
}

func TestStream__TransformError(t *testing.T) {
	failure := errors.New("boom")
	reader, writer := stream.New(func([]byte) ([]byte, error) { return nil, failure })

	_, err := writer.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.ErrorIs(t, writer.Close(), failure)

	_, err = io.ReadAll(reader)
	assert.ErrorIs(t, err, failure)
}

func TestStream__Empty(t *testing.T) {
	reader, writer := stream.New(reverse)
	require.NoError(t, writer.Close())

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, []byte{}))
}

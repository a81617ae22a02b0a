// Package serial is the private object serialization shared by the codecs'
// byte-level layers. Values are written as MessagePack, which is
// self-describing, so a payload can be checked for shape before a codec
// interprets it.
package serial

import (
	"github.com/adilg123/rle-huffman-lzw/internal/compression/codecerr"
	"github.com/ugorji/go/codec"
)

func newHandle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	// Encode []byte with the msgpack bin types.
	h.WriteExt = true
	// Reject payloads that carry fields the target struct doesn't have.
	h.ErrorIfNoField = true
	return h
}

// Marshal serializes v. A fresh handle is built per call so that no state is
// shared between concurrent codec invocations.
func Marshal(v interface{}) ([]byte, error) {
	var out []byte
	enc := codec.NewEncoderBytes(&out, newHandle())
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshal decodes data into v. Any failure, including an empty or truncated
// payload, is reported as codecerr.ErrMalformedData.
func Unmarshal(data []byte, v interface{}) error {
	if len(data) == 0 {
		return codecerr.ErrMalformedData.WithMessage("empty payload")
	}
	dec := codec.NewDecoderBytes(data, newHandle())
	if err := decodeSafely(dec, v); err != nil {
		return codecerr.ErrMalformedData.Wrap(err)
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return codecerr.ErrMalformedData.WithMessage("trailing bytes after payload")
	}
	return nil
}

// decodeSafely reports a panic inside the decoder as an error.
func decodeSafely(dec *codec.Decoder, v interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = codecerr.ErrMalformedData.WithMessage("decoder panic")
		}
	}()
	return dec.Decode(v)
}

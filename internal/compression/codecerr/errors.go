// Package codecerr holds the errors every codec can return. None of them are
// retried or corrected by the codecs; they go straight back to the caller.
package codecerr

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

// ErrMalformedData means the serialized container could not be parsed into the
// shape the codec expects.
var ErrMalformedData = rootError.WithMessage("Malformed serialized data")

// ErrCorruptedData means the container parsed, but what it holds breaks an
// invariant of the codec (a zero-length run, an impossible padding value...).
var ErrCorruptedData = rootError.WithMessage("Corrupted data")

// ErrInvalidPrefixCode means a Huffman code table is not prefix-free, or a bit
// stream does not decode against it.
var ErrInvalidPrefixCode = rootError.WithMessage("Invalid prefix code")

// ErrCorruptedStream means an LZW code referred to a dictionary entry that
// does not exist yet.
var ErrCorruptedStream = rootError.WithMessage("Corrupted LZW stream")

// ErrUnsupportedSymbol means a symbol does not fit the alphabet the codec
// was asked to work with.
var ErrUnsupportedSymbol = rootError.WithMessage("Symbol outside supported range")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

// Wrap attaches a lower-level cause. Both the receiver and err stay reachable
// through errors.Is and errors.As.
func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}

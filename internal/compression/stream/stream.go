// Package stream adapts a whole-buffer transform to an io.ReadCloser /
// io.WriteCloser pair. Everything written is buffered; the transform runs once
// when the writer is closed, and only then can the reader be drained.
package stream

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// Transform turns one complete input buffer into one complete output buffer.
type Transform func(input []byte) ([]byte, error)

var (
	ErrNotClosed     = errors.New("input not signaled as complete; close the writer before reading")
	ErrAlreadyClosed = errors.New("writer already closed")
)

type core struct {
	lock                sync.Mutex
	isInputBufferClosed bool
	transform           Transform
	inputBuffer         *bytes.Buffer
	outputBuffer        *bytes.Buffer
	err                 error
}

type Writer struct {
	core *core
}

type Reader struct {
	core *core
}

// New returns the reader and writer halves sharing one buffered transform.
func New(transform Transform) (io.ReadCloser, io.WriteCloser) {
	c := &core{
		transform:    transform,
		inputBuffer:  new(bytes.Buffer),
		outputBuffer: new(bytes.Buffer),
	}
	return &Reader{core: c}, &Writer{core: c}
}

func (w *Writer) Write(data []byte) (int, error) {
	w.core.lock.Lock()
	defer w.core.lock.Unlock()
	if w.core.isInputBufferClosed {
		return 0, ErrAlreadyClosed
	}
	return w.core.inputBuffer.Write(data)
}

// Close runs the transform. A transform error is returned here and also from
// every later Read.
func (w *Writer) Close() error {
	w.core.lock.Lock()
	defer w.core.lock.Unlock()
	if w.core.isInputBufferClosed {
		return nil
	}
	w.core.isInputBufferClosed = true
	output, err := w.core.transform(w.core.inputBuffer.Bytes())
	w.core.inputBuffer.Reset()
	if err != nil {
		w.core.err = err
		return err
	}
	_, err = w.core.outputBuffer.Write(output)
	return err
}

func (r *Reader) Read(data []byte) (int, error) {
	r.core.lock.Lock()
	defer r.core.lock.Unlock()
	if !r.core.isInputBufferClosed {
		return 0, ErrNotClosed
	}
	if r.core.err != nil {
		return 0, r.core.err
	}
	return r.core.outputBuffer.Read(data)
}

func (r *Reader) Close() error {
	r.core.lock.Lock()
	defer r.core.lock.Unlock()
	r.core.inputBuffer.Reset()
	r.core.outputBuffer.Reset()
	return nil
}

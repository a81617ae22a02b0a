package source

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

// ErrShapeMismatch means a symbol stream does not hold exactly
// width*height*channels bytes.
var ErrShapeMismatch = errors.New("symbol count does not match image shape")

// ReconstructImage turns image bytes produced by Load back into an image:
// one channel gives a grayscale image, three give RGB. Delta-encoded bytes
// are decoded first.
func ReconstructImage(symbols []symbol.Symbol, width, height, channels int, delta bool) (image.Image, error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	if width < 1 || height < 1 || len(symbols) != width*height*channels {
		return nil, fmt.Errorf("%w: %d symbols for %dx%dx%d", ErrShapeMismatch, len(symbols), width, height, channels)
	}
	pixels, err := symbol.ToBytes(symbols)
	if err != nil {
		return nil, err
	}
	if delta {
		pixels = DeltaDecode(pixels)
	}

	bounds := image.Rect(0, 0, width, height)
	if channels == 1 {
		img := image.NewGray(bounds)
		copy(img.Pix, pixels)
		return img, nil
	}
	img := image.NewNRGBA(bounds)
	for i := 0; i < width*height; i++ {
		copy(img.Pix[4*i:4*i+3], pixels[3*i:3*i+3])
		img.Pix[4*i+3] = 0xff
	}
	return img, nil
}

// Reconstruct writes what d was loaded from: a PNG for images, the extracted
// UTF-8 text for everything else.
func (d *Data) Reconstruct(w io.Writer) error {
	if d.FileType != Image {
		_, err := io.WriteString(w, symbol.ToString(d.Symbols))
		return err
	}
	img, err := ReconstructImage(d.Symbols, d.Width, d.Height, d.Channels, d.Delta)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

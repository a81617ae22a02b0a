// Package source turns files into symbol streams the codecs can work on.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// FileType is the coarse kind of an input file.
type FileType string

const (
	Text     FileType = "text"
	Image    FileType = "image"
	Video    FileType = "video"
	Document FileType = "document"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

var extensions = map[string]FileType{
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
	".bmp":  Image,
	".gif":  Image,
	".mp4":  Video,
	".avi":  Video,
	".mov":  Video,
	".mkv":  Video,
	".txt":  Document,
	".pdf":  Document,
	".docx": Document,
	".csv":  Document,
	".md":   Document,
}

// DetectFileType classifies a file by extension. Unknown extensions are Text.
func DetectFileType(path string) FileType {
	if fileType, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return fileType
	}
	return Text
}

// Options controls how a file becomes symbols.
type Options struct {
	// Grayscale reduces image pixels to one luma byte.
	Grayscale bool
	// Delta stores image bytes as differences from the previous byte, shifted
	// by 128 and wrapped into 0..255. Smooth images turn into long runs.
	Delta bool
	// ResizePercent scales images before conversion; 0 keeps the original
	// size.
	ResizePercent int
	// Width and Height scale images to an exact size. They take precedence
	// over ResizePercent and must be set together.
	Width  int
	Height int
}

// targetSize is the image size after resizing, or size itself when no resize
// was asked for.
func (o Options) targetSize(size image.Point) (image.Point, error) {
	switch {
	case o.Width != 0 || o.Height != 0:
		if o.Width < 1 || o.Height < 1 {
			return image.Point{}, fmt.Errorf("invalid resize %dx%d", o.Width, o.Height)
		}
		return image.Pt(o.Width, o.Height), nil
	case o.ResizePercent != 0:
		if o.ResizePercent < 1 {
			return image.Point{}, fmt.Errorf("invalid resize percentage %d", o.ResizePercent)
		}
		scaled := image.Pt(size.X*o.ResizePercent/100, size.Y*o.ResizePercent/100)
		return image.Pt(max(scaled.X, 1), max(scaled.Y, 1)), nil
	}
	return size, nil
}

// Data is a loaded file.
type Data struct {
	Symbols  []symbol.Symbol
	FileType FileType
	Format   string
	FileSize int
	// Image geometry; zero for text.
	Width    int
	Height   int
	Channels int
	// Delta is set when Symbols hold delta-encoded image bytes.
	Delta bool
}

// Load reads the file at path and converts it.
func Load(path string, options Options) (*Data, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(filepath.Base(path), content, options)
}

// LoadBytes converts already-read file content, using name only for type
// detection.
func LoadBytes(name string, content []byte, options Options) (*Data, error) {
	fileType := DetectFileType(name)
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case fileType == Video:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, name)
	case fileType == Image:
		return loadImage(content, options)
	case ext == ".docx":
		text, err := docxText(content)
		if err != nil {
			return nil, err
		}
		return textData(fileType, "docx", []byte(text), len(content))
	case ext == ".pdf":
		text, err := pdfText(content)
		if err != nil {
			return nil, err
		}
		return textData(fileType, "pdf", []byte(text), len(content))
	default:
		return textData(fileType, strings.TrimPrefix(ext, "."), content, len(content))
	}
}

func textData(fileType FileType, format string, content []byte, fileSize int) (*Data, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrUnsupportedFileType)
	}
	return &Data{
		Symbols:  symbol.FromString(string(content)),
		FileType: fileType,
		Format:   format,
		FileSize: fileSize,
	}, nil
}

func loadImage(content []byte, options Options) (*Data, error) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	size, err := options.targetSize(bounds.Size())
	if err != nil {
		return nil, err
	}
	if size != bounds.Size() {
		scaled := image.NewNRGBA(image.Rectangle{Max: size})
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img, bounds = scaled, scaled.Bounds()
	}

	channels := 3
	if options.Grayscale {
		channels = 1
	}
	pixels := make([]byte, 0, bounds.Dx()*bounds.Dy()*channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			if options.Grayscale {
				pixels = append(pixels, color.GrayModel.Convert(c).(color.Gray).Y)
				continue
			}
			rgba := color.NRGBAModel.Convert(c).(color.NRGBA)
			pixels = append(pixels, rgba.R, rgba.G, rgba.B)
		}
	}
	if options.Delta {
		pixels = DeltaEncode(pixels)
	}

	return &Data{
		Symbols:  symbol.FromBytes(pixels),
		FileType: Image,
		Format:   format,
		FileSize: len(content),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: channels,
		Delta:    options.Delta,
	}, nil
}

// DeltaEncode keeps the first byte and replaces every later one with its
// difference from the previous byte plus 128, modulo 256.
func DeltaEncode(data []byte) []byte {
	out := make([]byte, len(data))
	var previous byte
	for i, b := range data {
		if i == 0 {
			out[i] = b
		} else {
			out[i] = b - previous + 128
		}
		previous = b
	}
	return out
}

// DeltaDecode reverses DeltaEncode.
func DeltaDecode(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		if i == 0 {
			out[i] = b
		} else {
			out[i] = out[i-1] + b - 128
		}
	}
	return out
}

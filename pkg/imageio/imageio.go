// Package imageio turns image files into flat NRGBA pixel buffers and back.
//
// Only lossless output formats are written: a lossy re-encode would destroy
// the low bits the stego package writes into.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder (input only)
	_ "image/jpeg" // Register JPEG decoder (input only)
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp" // Also registers the BMP decoder
	"golang.org/x/image/draw"
)

var (
	// ErrImageIO wraps every failure to read or write an image.
	ErrImageIO = errors.New("image i/o failed")

	// ErrLossyFormat indicates an output format that would alter channel values.
	ErrLossyFormat = errors.New("lossy output format")

	// ErrUnsupportedFormat indicates an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Format is a lossless output container.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ParseFormat accepts a format name or file extension, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "jpg", "jpeg", "gif", "webp":
		return "", fmt.Errorf("%w: %w: %s", ErrImageIO, ErrLossyFormat, s)
	}
	return "", fmt.Errorf("%w: %w: %q", ErrImageIO, ErrUnsupportedFormat, s)
}

// FormatFromPath derives the output format from path's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Pixels is a tightly packed NRGBA buffer: four channels per pixel, rows
// without padding.
type Pixels struct {
	Width  int
	Height int
	Pix    []byte
}

// FromImage copies img into a fresh Pixels buffer.
func FromImage(img image.Image) *Pixels {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	if src, ok := img.(*image.NRGBA); ok {
		// Copy rows directly so partially transparent pixels keep their exact values.
		for y := 0; y < h; y++ {
			from := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[from:from+w*4])
		}
	} else {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	}

	return &Pixels{Width: w, Height: h, Pix: dst.Pix}
}

// Image wraps the buffer as an *image.NRGBA without copying.
func (p *Pixels) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// LoadPixels decodes any registered image format (PNG, BMP, JPEG, GIF).
func LoadPixels(r io.Reader) (*Pixels, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrImageIO, err)
	}
	return FromImage(img), nil
}

// SavePixels encodes p in format f.
func SavePixels(w io.Writer, p *Pixels, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, p.Image())
	case BMP:
		err = bmp.Encode(w, p.Image())
	default:
		parsed, perr := ParseFormat(string(f))
		if perr != nil {
			return perr
		}
		return SavePixels(w, p, parsed)
	}
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrImageIO, f, err)
	}
	return nil
}

// LoadFile reads and decodes the image at path.
func LoadFile(path string) (*Pixels, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageIO, err)
	}
	defer file.Close()

	return LoadPixels(file)
}

// SaveFile writes p to path, choosing the format from its extension.
func SaveFile(path string, p *Pixels) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImageIO, err)
	}
	if err := SavePixels(out, p, f); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrImageIO, err)
	}
	return nil
}

package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	// Formats accepted on upload besides PNG and JPEG.
	_ "image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooManyPixels     = errors.New("image has too many pixels")
)

type Picture struct {
	Img    image.Image
	Bounds image.Rectangle
	Format string
}

type PipelineStage interface {
	Process(p *Picture) error
}

func NewPicture(img image.Image) *Picture {
	return &Picture{
		Img:    img,
		Bounds: img.Bounds(),
		Format: "png",
	}
}

// NewPictureFromReader decodes png, jpeg, gif, bmp, tiff or webp data.
func NewPictureFromReader(r io.Reader) (*Picture, error) {
	return DecodeLimited(r, 0)
}

// DecodeLimited is NewPictureFromReader, except that the image header is
// checked first and anything declaring more than maxPixels pixels is
// rejected with ErrTooManyPixels before the pixel data is allocated. A
// maxPixels of 0 or less disables the check.
func DecodeLimited(r io.Reader, maxPixels int64) (*Picture, error) {
	if maxPixels > 0 {
		var header bytes.Buffer
		cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
		if err != nil {
			return nil, decodeError(err)
		}
		if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
			return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
		}
		r = io.MultiReader(&header, r)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, decodeError(err)
	}
	return &Picture{
		Img:    img,
		Bounds: img.Bounds(),
		Format: format,
	}, nil
}

func decodeError(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return ErrUnsupportedFormat
	}
	return fmt.Errorf("failed to decode image: %w", err)
}

func (p *Picture) Write(w io.Writer) error {
	return png.Encode(w, p.Img)
}

// WriteFormat encodes the picture as png, jpeg, bmp or tiff.
func (p *Picture) WriteFormat(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", "png":
		return png.Encode(w, p.Img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, p.Img, &jpeg.Options{Quality: 95})
	case "bmp":
		return bmp.Encode(w, p.Img)
	case "tif", "tiff":
		return tiff.Encode(w, p.Img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ContentType returns the MIME type for a format accepted by WriteFormat.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Extension returns the file extension, without a dot, for a format
// accepted by WriteFormat.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "jpg"
	case "bmp":
		return "bmp"
	case "tif", "tiff":
		return "tiff"
	default:
		return "png"
	}
}

func (p *Picture) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}

package enhance

import (
	"bytes"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const bytesPerPixel = 4

// PixelBuffer is a dense, row-major raster of non-premultiplied RGBA pixels
// with no row padding. A buffer returned by any function in this package
// must be treated as read-only.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer wraps pix without copying it, after checking that its
// length matches the dimensions.
func NewPixelBuffer(width, height int, pix []uint8) (*PixelBuffer, error) {
	p := &PixelBuffer{Width: width, Height: height, Pix: pix}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*bytesPerPixel),
	}
}

// FromImage copies img into a new buffer, converting to 8-bit
// non-premultiplied RGBA. The result always has its origin at (0, 0).
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	p := newPixelBuffer(b.Dx(), b.Dy())

	if src, ok := img.(*image.NRGBA); ok && src.Stride == b.Dx()*bytesPerPixel && len(src.Pix) == len(p.Pix) {
		copy(p.Pix, src.Pix)
		return p
	}

	dst := &image.NRGBA{Pix: p.Pix, Stride: p.Width * bytesPerPixel, Rect: image.Rect(0, 0, p.Width, p.Height)}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return p
}

// Image exposes the buffer as an *image.NRGBA sharing the same pixels.
func (p *PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Width * bytesPerPixel,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

func (p *PixelBuffer) Clone() *PixelBuffer {
	out := newPixelBuffer(p.Width, p.Height)
	copy(out.Pix, p.Pix)
	return out
}

// Equal reports whether both buffers have the same dimensions and bytes.
func (p *PixelBuffer) Equal(o *PixelBuffer) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Width == o.Width && p.Height == o.Height && bytes.Equal(p.Pix, o.Pix)
}

func (p *PixelBuffer) At(x, y int) color.NRGBA {
	i := p.offset(x, y)
	return color.NRGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: p.Pix[i+3]}
}

func (p *PixelBuffer) offset(x, y int) int {
	return (y*p.Width + x) * bytesPerPixel
}

func (p *PixelBuffer) validate() error {
	if p == nil {
		return invalid(ReasonDimensionMismatch, "nil buffer")
	}
	if p.Width < 0 || p.Height < 0 {
		return invalid(ReasonDimensionMismatch, "negative dimensions %dx%d", p.Width, p.Height)
	}
	if want := p.Width * p.Height * bytesPerPixel; len(p.Pix) != want {
		return invalid(ReasonDimensionMismatch, "%dx%d needs %d bytes, got %d", p.Width, p.Height, want, len(p.Pix))
	}
	return nil
}

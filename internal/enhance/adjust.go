package enhance

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Luma weights used by the saturate() filter matrix.
const (
	lumaR = 0.213
	lumaG = 0.715
	lumaB = 0.072
)

// Adjust applies brightness, contrast and saturation, in that order, to the
// RGB channels of every pixel. Alpha is copied unchanged. Values outside
// [0, 200] are not rejected; the results are clamped like any other.
func Adjust(src *PixelBuffer, brightness, contrast, saturation float64) *PixelBuffer {
	out := newPixelBuffer(src.Width, src.Height)
	bf, cf, sf := brightness/100, contrast/100, saturation/100
	rowLen := src.Width * bytesPerPixel

	parallel.Line(src.Height, func(start, end int) {
		for i := start * rowLen; i < end*rowLen; i += bytesPerPixel {
			r := float64(src.Pix[i])
			g := float64(src.Pix[i+1])
			b := float64(src.Pix[i+2])

			r, g, b = clamp(r*bf), clamp(g*bf), clamp(b*bf)
			r, g, b = clamp((r-128)*cf+128), clamp((g-128)*cf+128), clamp((b-128)*cf+128)

			gray := lumaR*r + lumaG*g + lumaB*b
			r, g, b = gray+(r-gray)*sf, gray+(g-gray)*sf, gray+(b-gray)*sf

			out.Pix[i] = toByte(r)
			out.Pix[i+1] = toByte(g)
			out.Pix[i+2] = toByte(b)
			out.Pix[i+3] = src.Pix[i+3]
		}
	})
	return out
}

func clamp(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// toByte clamps and rounds half to even, as 8-bit clamped storage does.
func toByte(v float64) uint8 {
	return uint8(math.RoundToEven(clamp(v)))
}

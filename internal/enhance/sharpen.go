package enhance

import "github.com/anthonynsimon/bild/parallel"

// Sharpen convolves the interior of src with SharpenKernel and scales the
// result by amount/100. Border pixels are copied from src. Every interior
// output pixel is fully opaque regardless of its input alpha.
//
// An amount of 0 returns src itself.
func Sharpen(src *PixelBuffer, amount float64) *PixelBuffer {
	if amount == 0 {
		return src
	}

	out := src.Clone()
	if src.Width < 3 || src.Height < 3 {
		return out
	}

	scale := amount / 100
	w := src.Width

	// Rows 0 and H-1 are border rows; only 1..H-2 are handed to workers.
	parallel.Line(src.Height-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				var r, g, b float64
				for ky := -1; ky <= 1; ky++ {
					row := (y + ky) * w
					for kx := -1; kx <= 1; kx++ {
						k := SharpenKernel[ky+1][kx+1]
						i := (row + x + kx) * bytesPerPixel
						r += float64(src.Pix[i]) * k
						g += float64(src.Pix[i+1]) * k
						b += float64(src.Pix[i+2]) * k
					}
				}

				o := (y*w + x) * bytesPerPixel
				out.Pix[o] = toByte(r * scale)
				out.Pix[o+1] = toByte(g * scale)
				out.Pix[o+2] = toByte(b * scale)
				out.Pix[o+3] = 255
			}
		}
	})
	return out
}

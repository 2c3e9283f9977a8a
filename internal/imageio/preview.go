package imageio

import (
	"image"

	"golang.org/x/image/draw"
)

// Preview scales img down so that neither side exceeds maxSize, keeping
// the aspect ratio. Images already small enough, or a maxSize below 1, are
// returned as is.
func Preview(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize < 1 || (w <= maxSize && h <= maxSize) {
		return img
	}

	pw, ph := maxSize, maxSize
	if w >= h {
		ph = max(1, h*maxSize/w)
	} else {
		pw = max(1, w*maxSize/h)
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
	return scaled
}

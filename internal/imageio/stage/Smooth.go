package stage

import (
	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/image-enhancer/internal/imageio"
)

type SmoothStage struct {
	Sigma float64
}

// Process applies a Gaussian blur with the given Sigma, softening the halo
// the sharpening kernel leaves around hard edges. A Sigma of 0 or less
// leaves the image untouched
func (s *SmoothStage) Process(p *imageio.Picture) error {
	if s.Sigma <= 0 {
		return nil
	}
	p.Img = blur.Gaussian(p.Img, s.Sigma)
	p.Bounds = p.Img.Bounds()
	return nil
}

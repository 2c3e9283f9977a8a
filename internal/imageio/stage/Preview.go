package stage

import "github.com/rm-hull/image-enhancer/internal/imageio"

type PreviewStage struct {
	MaxSize int
}

// Process shrinks the image to fit within MaxSize on both sides
func (s *PreviewStage) Process(p *imageio.Picture) error {
	p.Img = imageio.Preview(p.Img, s.MaxSize)
	p.Bounds = p.Img.Bounds()
	return nil
}

package stage

import (
	"fmt"

	"github.com/rm-hull/image-enhancer/internal/enhance"
	"github.com/rm-hull/image-enhancer/internal/imageio"
)

type EnhanceStage struct {
	Params enhance.Params
}

// Process runs the enhancement pipeline over the picture with the given
// Params, which must already be within range
func (s *EnhanceStage) Process(p *imageio.Picture) error {
	out, err := enhance.Enhance(enhance.FromImage(p.Img), s.Params)
	if err != nil {
		return fmt.Errorf("failed to enhance image: %w", err)
	}
	p.Img = out.Image()
	p.Bounds = p.Img.Bounds()
	return nil
}

package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/kettek/apng"
)

// MaxFrameDelay is the longest frame delay, in seconds, an APNG frame can
// carry with a millisecond denominator.
const MaxFrameDelay = math.MaxUint16 / 1000.0

var ErrInvalidDelay = errors.New("invalid frame delay")

// Compare renders a looping two frame APNG that alternates between the
// original and enhanced images, each shown for frameDelay seconds.
// frameDelay must be in (0, MaxFrameDelay].
func Compare(original, enhanced image.Image, frameDelay float64) ([]byte, error) {
	if !(frameDelay > 0 && frameDelay <= MaxFrameDelay) {
		return nil, fmt.Errorf("%w: %vs not in (0, %v]", ErrInvalidDelay, frameDelay, MaxFrameDelay)
	}

	frames := []image.Image{original, enhanced}
	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, img := range frames {
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(math.Round(frameDelay * 1000)),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

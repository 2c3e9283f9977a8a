// Package enhance implements the image enhancement pipeline: a colour
// adjustment stage followed by an optional sharpening convolution.
//
// All functions are pure. Inputs are never modified and every call
// allocates its own output, so concurrent calls need no coordination.
package enhance

// Enhance runs Adjust and then, when params.Sharpness is positive, Sharpen.
// It fails with an InvalidInputError if the buffer does not match its
// dimensions or any parameter lies outside [0, 200].
func Enhance(original *PixelBuffer, params Params) (*PixelBuffer, error) {
	if err := original.validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	adjusted := Adjust(original, params.Brightness, params.Contrast, params.Saturation)
	if params.Sharpness > 0 {
		return Sharpen(adjusted, params.Sharpness), nil
	}
	return adjusted, nil
}

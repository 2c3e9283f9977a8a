package enhance

import "fmt"

const (
	MinPercent = 0.0
	MaxPercent = 200.0
)

// Params holds the four enhancement controls as percentages in [0, 200].
// Brightness, Contrast and Saturation are identity at 100, Sharpness is
// disabled at 0.
type Params struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Sharpness  float64 `json:"sharpness"`
}

// Reset returns the parameter set that leaves any image unchanged.
func Reset() Params {
	return Params{Brightness: 100, Contrast: 100, Saturation: 100, Sharpness: 0}
}

func (p Params) IsIdentity() bool {
	return p == Reset()
}

// Validate returns an InvalidInputError naming the first field outside
// [0, 200]. NaN is always out of range.
func (p Params) Validate() error {
	for _, f := range p.fields() {
		if !(f.value >= MinPercent && f.value <= MaxPercent) {
			return invalid(ReasonParamOutOfRange, "%s=%v not in [%v, %v]", f.name, f.value, MinPercent, MaxPercent)
		}
	}
	return nil
}

// Clamp pulls every field into [0, 200]. NaN becomes the field's identity
// value.
func (p Params) Clamp() Params {
	identity := Reset()
	return Params{
		Brightness: clampPercent(p.Brightness, identity.Brightness),
		Contrast:   clampPercent(p.Contrast, identity.Contrast),
		Saturation: clampPercent(p.Saturation, identity.Saturation),
		Sharpness:  clampPercent(p.Sharpness, identity.Sharpness),
	}
}

func (p Params) String() string {
	return fmt.Sprintf("brightness=%v%% contrast=%v%% saturation=%v%% sharpness=%v%%",
		p.Brightness, p.Contrast, p.Saturation, p.Sharpness)
}

type field struct {
	name  string
	value float64
}

func (p Params) fields() []field {
	return []field{
		{"brightness", p.Brightness},
		{"contrast", p.Contrast},
		{"saturation", p.Saturation},
		{"sharpness", p.Sharpness},
	}
}

func clampPercent(v, fallback float64) float64 {
	switch {
	case v != v:
		return fallback
	case v < MinPercent:
		return MinPercent
	case v > MaxPercent:
		return MaxPercent
	}
	return v
}

package enhance

// SharpenKernel is the fixed 3x3 sharpening matrix, indexed [ky+1][kx+1].
// Its weights sum to 1 so uniform regions are left unchanged.
var SharpenKernel = [3][3]float64{
	{-1.0 / 9, -1.0 / 9, -1.0 / 9},
	{-1.0 / 9, 17.0 / 9, -1.0 / 9},
	{-1.0 / 9, -1.0 / 9, -1.0 / 9},
}

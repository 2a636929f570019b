package filter

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// LUT returns the 256-entry lookup table for an integer gamma percentage:
// out = 255 * (in/255)^(1/g) with g = percent/100. Precomputing the table
// avoids redundant pow calls per pixel. A percentage of 100 is the
// identity mapping.
func LUT(percent int) [256]uint8 {
	var tbl [256]uint8
	if percent <= 0 {
		percent = 1
	}
	if percent == 100 {
		for i := range tbl {
			tbl[i] = uint8(i)
		}
		return tbl
	}
	inv := 1 / (float64(percent) / 100)
	for i := range tbl {
		v := 255 * math.Pow(float64(i)/255, inv)
		tbl[i] = uint8(math.Round(math.Min(255, math.Max(0, v))))
	}
	return tbl
}

// Apply runs the gamma pass over the original decoded image and returns
// the corrected pixels. The lookup is applied independently to the red,
// green and blue channels; alpha is untouched. Images whose longer side
// exceeds maxDim are first downscaled proportionally to bound the cost of
// the pixel pass. The input image is never modified.
func Apply(img image.Image, percent, maxDim int) *image.NRGBA {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	out := imaging.Clone(img)
	tbl := LUT(percent)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = tbl[out.Pix[i+0]]
		out.Pix[i+1] = tbl[out.Pix[i+1]]
		out.Pix[i+2] = tbl[out.Pix[i+2]]
	}
	return out
}

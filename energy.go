package seamcut

import (
	"fmt"
	"image"
	"image/color"

	"github.com/esimov/seamcut/utils"
)

type kernel [][]int32

var (
	// kernelX responds to vertical edges.
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	// kernelY responds to horizontal edges.
	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// EnergyMap holds the per pixel importance of an image, row by row.
type EnergyMap struct {
	Width  int
	Height int
	Values []float64
}

// NewEnergyMap computes the energy of every image pixel.
// The grayscale image is convolved with the Sobel kernels, the absolute responses are averaged
// and scaled into the [0, 1] range, then multiplied with the mask weight of the pixel.
// See https://en.wikipedia.org/wiki/Sobel_operator
func NewEnergyMap(img *image.NRGBA, mask *Mask) (*EnergyMap, error) {
	dx, dy := img.Bounds().Dx(), img.Bounds().Dy()
	if mask.Width != dx || mask.Height != dy {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d",
			ErrDimensionMismatch, dx, dy, mask.Width, mask.Height)
	}

	gray := rgbToGrayscale(img)
	em := &EnergyMap{
		Width:  dx,
		Height: dy,
		Values: make([]float64, dx*dy),
	}

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			var sumX, sumY int32
			for ky := 0; ky < len(kernelY); ky++ {
				row := reflect101(y+ky-1, dy) * dx
				for kx := 0; kx < len(kernelX); kx++ {
					px := int32(gray[row+reflect101(x+kx-1, dx)])
					sumX += px * kernelX[ky][kx]
					sumY += px * kernelY[ky][kx]
				}
			}
			gx := utils.Min(utils.Abs(sumX), 255)
			gy := utils.Min(utils.Abs(sumY), 255)

			em.Values[y*dx+x] = float64(gx+gy) / 2 / 255 * mask.Weight(x, y)
		}
	}
	return em, nil
}

// At returns the energy at column x and row y.
func (em *EnergyMap) At(x, y int) float64 {
	return em.Values[y*em.Width+x]
}

// Image renders the energy map as a grayscale image stretched between its lowest and highest values.
func (em *EnergyMap) Image() *image.Gray16 {
	dst := image.NewGray16(image.Rect(0, 0, em.Width, em.Height))
	if len(em.Values) == 0 {
		return dst
	}
	lo, hi := em.Values[0], em.Values[0]
	for _, v := range em.Values {
		lo = utils.Min(lo, v)
		hi = utils.Max(hi, v)
	}
	for y := 0; y < em.Height; y++ {
		for x := 0; x < em.Width; x++ {
			var v float64
			if hi > lo {
				v = (em.At(x, y) - lo) / (hi - lo)
			}
			dst.SetGray16(x, y, color.Gray16{Y: uint16(v * 0xffff)})
		}
	}
	return dst
}

// reflect101 maps an out of range index back into [0, n) by mirroring it
// around the border pixel, without repeating the border itself (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

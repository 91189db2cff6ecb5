package seamcut

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Bias values stored in the mask.
const (
	BiasRemove   = -1.0
	BiasNeutral  = 0.0
	BiasPreserve = 1.0
)

// Mask is a grid of signed bias weights co-indexed with the image being carved.
// A bias of -1 pushes the pixel toward removal, 0 leaves it untouched
// and +1 pushes it toward preservation.
type Mask struct {
	Width  int
	Height int

	stride int
	bias   []float64
}

// NeutralMask returns a mask with every cell set to BiasNeutral.
func NeutralMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		stride: width,
		bias:   make([]float64, width*height),
	}
}

// NewMask builds the bias grid from a grayscale importance image,
// where black marks the regions to remove, mid gray the neutral ones and white the ones to preserve.
// The source is resized to width x height when its dimensions differ.
//
// The gray values are first scaled so that the brightest value maps to 2, then
// rounded to one of the levels 0, 1 and 2 and finally shifted into the [-1, 1] range.
func NewMask(src image.Image, width, height int) *Mask {
	if src.Bounds().Dx() != width || src.Bounds().Dy() != height {
		src = imaging.Resize(src, width, height, imaging.Linear)
	}
	var (
		b      = src.Bounds()
		m      = NeutralMask(width, height)
		gray   = make([]float64, width*height)
		maxVal float64
	)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			v := float64(c.Y)
			gray[y*width+x] = v
			if v > maxVal {
				maxVal = v
			}
		}
	}

	half := maxVal / 2
	for i, v := range gray {
		level := 0.0
		if half > 0 {
			level = math.Min(math.RoundToEven(v/half), 2)
		}
		m.bias[i] = level - 1
	}
	return m
}

// At returns the bias at column x and row y.
func (m *Mask) At(x, y int) float64 {
	return m.bias[y*m.stride+x]
}

// Set sets the bias at column x and row y.
func (m *Mask) Set(x, y int, bias float64) {
	m.bias[y*m.stride+x] = bias
}

// Weight returns the energy multiplier of the cell: -1 for removal, 1 for neutral and 3 for preservation.
func (m *Mask) Weight(x, y int) float64 {
	return 1 + 2*m.At(x, y)
}

// Bounds returns the mask dimensions as an image rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Fill sets the bias of every cell inside rect, clipped to the mask bounds.
func (m *Mask) Fill(rect image.Rectangle, bias float64) {
	rect = rect.Intersect(m.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			m.Set(x, y, bias)
		}
	}
}

// AutoWidth returns the widest removal band of the mask,
// that is the maximum number of removal marked cells found in a single row.
func (m *Mask) AutoWidth() int {
	var width int
	for y := 0; y < m.Height; y++ {
		var acc int
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) == BiasRemove {
				acc++
			}
		}
		if acc > width {
			width = acc
		}
	}
	return width
}

// RemoveSeam deletes the seam column from each row and shrinks the mask width by one.
// The mask is left untouched in case the seam is not valid.
func (m *Mask) RemoveSeam(seam []Seam) error {
	if err := validateSeam(seam, m.Width, m.Height); err != nil {
		return err
	}
	for _, s := range seam {
		row := m.bias[s.Y*m.stride : s.Y*m.stride+m.Width]
		copy(row[s.X:], row[s.X+1:])
	}
	m.Width--

	return nil
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	dst := NeutralMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		copy(dst.bias[y*dst.stride:(y+1)*dst.stride], m.bias[y*m.stride:y*m.stride+m.Width])
	}
	return dst
}

// Image renders the mask as a grayscale image: black for removal, gray for neutral and white for preservation.
func (m *Mask) Image() *image.Gray {
	dst := image.NewGray(m.Bounds())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			dst.SetGray(x, y, color.Gray{Y: uint8((m.At(x, y) + 1) * 127.5)})
		}
	}
	return dst
}

// validateSeam checks that the seam holds exactly one in range column for every row, top to bottom.
func validateSeam(seam []Seam, width, height int) error {
	if len(seam) != height {
		return fmt.Errorf("%w: got %d points for %d rows", ErrSeamLength, len(seam), height)
	}
	for y, s := range seam {
		if s.Y != y || s.X < 0 || s.X >= width {
			return fmt.Errorf("%w: point (%d, %d) outside of %dx%d", ErrSeamLength, s.X, s.Y, width, height)
		}
	}
	return nil
}

package seamcut

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Carver holds the cumulative seam costs of an image.
type Carver struct {
	Width  int
	Height int
	Points []float64
}

// Seam is a single point of a vertical seam, one for every image row.
type Seam struct {
	X int
	Y int
}

// NewCarver returns an initialized Carver structure.
func NewCarver(width, height int) *Carver {
	return &Carver{
		Width:  width,
		Height: height,
		Points: make([]float64, width*height),
	}
}

// Get energy pixel value.
func (c *Carver) get(x, y int) float64 {
	return c.Points[x+y*c.Width]
}

// Set energy pixel value.
func (c *Carver) set(x, y int, px float64) {
	c.Points[x+y*c.Width] = px
}

// ComputeSeams computes the minimum cost of every connected path running
// from each pixel down to the bottom row:
//   - the bottom row keeps its own energy;
//   - going upward, each pixel adds the cheapest of its (up to) three neighbors from the row below.
//     Neighbors falling outside of the image are not considered.
//
// The costs are normalized by their maximum afterwards, unless the maximum is not positive.
func (c *Carver) ComputeSeams(em *EnergyMap) error {
	if em.Width != c.Width || em.Height != c.Height {
		return fmt.Errorf("%w: carver %dx%d, energy map %dx%d",
			ErrDimensionMismatch, c.Width, c.Height, em.Width, em.Height)
	}
	copy(c.Points, em.Values)

	for y := c.Height - 2; y >= 0; y-- {
		for x := 0; x < c.Width; x++ {
			min := c.get(x, y+1)
			// Do not compute edge cases: pixels are far left.
			if x > 0 {
				min = math.Min(min, c.get(x-1, y+1))
			}
			// Do not compute edge cases: pixels are far right.
			if x < c.Width-1 {
				min = math.Min(min, c.get(x+1, y+1))
			}
			c.set(x, y, c.get(x, y)+min)
		}
	}

	if len(c.Points) == 0 {
		return nil
	}
	if max := floats.Max(c.Points); max > 0 {
		floats.Scale(1/max, c.Points)
	}
	return nil
}

// FindLowestEnergySeams walks down the cost table and returns the cheapest vertical seam, top to bottom.
// The seam starts from the leftmost minimum of the first row, then on each following row it moves
// to the left neighbor if that one is strictly cheaper, otherwise to the right one if that is
// strictly cheaper, otherwise it goes straight down.
func (c *Carver) FindLowestEnergySeams() []Seam {
	var px int
	seams := make([]Seam, 0, c.Height)
	if c.Width == 0 || c.Height == 0 {
		return seams
	}

	for x := 1; x < c.Width; x++ {
		if c.get(x, 0) < c.get(px, 0) {
			px = x
		}
	}
	seams = append(seams, Seam{X: px, Y: 0})

	for y := 1; y < c.Height; y++ {
		center := c.get(px, y)
		switch {
		case px > 0 && c.get(px-1, y) < center:
			px--
		case px < c.Width-1 && c.get(px+1, y) < center:
			px++
		}
		seams = append(seams, Seam{X: px, Y: y})
	}
	return seams
}

// RemoveSeam deletes the seam pixels from the image by shifting the rest of every row one position
// to the left, then shrinks the image width by one. The image is modified in place.
func (c *Carver) RemoveSeam(img *image.NRGBA, seams []Seam) (*image.NRGBA, error) {
	bounds := img.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()
	if err := validateSeam(seams, dx, dy); err != nil {
		return nil, err
	}

	for _, s := range seams {
		offset := img.PixOffset(bounds.Min.X, bounds.Min.Y+s.Y)
		row := img.Pix[offset : offset+dx*4]
		copy(row[s.X*4:], row[(s.X+1)*4:])
	}
	img.Rect.Max.X--

	return img, nil
}

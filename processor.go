package seamcut

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/seamcut/utils"
)

// defaultSeamRatio is the share of the image width removed when no seam width is provided.
const defaultSeamRatio = 0.1

// Processor options
type Processor struct {
	// SeamWidth is the number of columns to remove. A negative value selects 10% of the image width.
	SeamWidth int
	// Mask is a prebuilt bias grid of the image size. It takes precedence over MaskImage and MaskPath.
	Mask *Mask
	// MaskPath is the path of the grayscale mask image. Ignored when MaskImage is set.
	MaskPath string
	// MaskImage is the grayscale mask: black for removal, mid gray neutral, white for preservation.
	MaskImage image.Image
	// AutoResize computes the seam width from the widest removal band of the mask.
	AutoResize bool
	// FaceDetect marks the detected faces for preservation, using the Classifier cascade file.
	FaceDetect bool
	FaceAngle  float64
	Classifier string
	// Compare writes next to the output a linear resize of the same target width.
	Compare bool
	// Name identifies the carved image in the observer notifications.
	Name      string
	Observers []Observer
}

// Carve is the main entry point of the seam carving operation.
// It removes the requested number of seams from a copy of the image
// and returns the narrowed image together with the narrowed mask.
// The source image is never modified.
func (p *Processor) Carve(src *image.NRGBA) (*image.NRGBA, *Mask, error) {
	img := imgToNRGBA(src)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width == 0 || height == 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}

	mask, hasMask, err := p.loadMask(width, height)
	if err != nil {
		return nil, nil, err
	}
	if p.FaceDetect {
		if err := p.protectFaces(img, mask); err != nil {
			return nil, nil, err
		}
	}

	seamWidth := p.SeamWidth
	if seamWidth < 0 {
		seamWidth = int(float64(width) * defaultSeamRatio)
	}
	if p.AutoResize && hasMask {
		seamWidth = mask.AutoWidth()
	}
	if seamWidth < 0 || seamWidth >= width {
		return nil, nil, fmt.Errorf("%w: %d >= %d", ErrInvalidSeamWidth, seamWidth, width)
	}
	utils.Logf("image will be resized by: %d px", seamWidth)

	for i := 0; i < seamWidth; i++ {
		if img, err = p.shrink(img, mask, i, seamWidth); err != nil {
			return nil, nil, err
		}
	}
	return img, mask, nil
}

// shrink removes the lowest energy seam from both the image and the mask.
func (p *Processor) shrink(img *image.NRGBA, mask *Mask, iter, total int) (*image.NRGBA, error) {
	em, err := NewEnergyMap(img, mask)
	if err != nil {
		return nil, err
	}

	c := NewCarver(em.Width, em.Height)
	if err := c.ComputeSeams(em); err != nil {
		return nil, err
	}
	seams := c.FindLowestEnergySeams()

	if img, err = c.RemoveSeam(img, seams); err != nil {
		return nil, err
	}
	if err := mask.RemoveSeam(seams); err != nil {
		return nil, err
	}

	step := &Step{
		Name:      p.Name,
		Iteration: iter,
		Total:     total,
		Energy:    em,
		Seam:      seams,
		Image:     img,
		Mask:      mask,
	}
	for _, o := range p.Observers {
		o.Observe(step)
	}
	return img, nil
}

// loadMask returns the mask covering a width x height image and reports whether it comes from a valid mask source.
// A missing or unreadable mask is replaced by a neutral one.
func (p *Processor) loadMask(width, height int) (*Mask, bool, error) {
	if p.Mask != nil {
		if p.Mask.Width != width || p.Mask.Height != height {
			return nil, false, fmt.Errorf("%w: image %dx%d, mask %dx%d",
				ErrDimensionMismatch, width, height, p.Mask.Width, p.Mask.Height)
		}
		return p.Mask.Clone(), true, nil
	}

	src := p.MaskImage
	if src == nil && p.MaskPath != "" {
		img, err := decodeImg(p.MaskPath)
		if err != nil {
			utils.Logf("could not load the mask file: %v", err)
		}
		src = img
	}
	if src == nil || src.Bounds().Empty() {
		utils.Logf("no mask provided, proceeding with a neutral mask")
		return NeutralMask(width, height), false, nil
	}
	return NewMask(src, width, height), true, nil
}

// Process decodes the source image, carves it and encodes the result into the writer.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	src, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("could not decode the source image: %w", err)
	}
	img := imgToNRGBA(src)

	res, _, err := p.Carve(img)
	if err != nil {
		return err
	}
	if err := encodeImg(w, res); err != nil {
		return err
	}

	if f, ok := w.(*os.File); ok && p.Compare && f != os.Stdout && f.Name() != os.DevNull {
		return saveComparison(img, res.Bounds().Dx(), f.Name())
	}
	return nil
}

// saveComparison stores a plain linear resize of the source to the carved width,
// in a file named after the carved output with a "_linear" suffix.
func saveComparison(src *image.NRGBA, width int, out string) error {
	ext := filepath.Ext(out)
	if ext == "" {
		ext = ".jpg"
	}
	name := strings.TrimSuffix(out, filepath.Ext(out)) + "_linear" + ext

	res := imaging.Resize(src, width, src.Bounds().Dy(), imaging.Linear)
	if err := imaging.Save(res, name); err != nil {
		return fmt.Errorf("could not save the comparison image: %w", err)
	}
	return nil
}

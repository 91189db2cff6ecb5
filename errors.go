package seamcut

import "errors"

var (
	// ErrInvalidSeamWidth is returned when the number of seams to remove
	// is negative or not smaller than the image width.
	ErrInvalidSeamWidth = errors.New("seam width should be smaller than the image width")

	// ErrDimensionMismatch is returned when the image and the mask are not of the same size.
	ErrDimensionMismatch = errors.New("image and mask dimensions differ")

	// ErrSeamLength is returned when a seam does not hold exactly one valid column per row.
	ErrSeamLength = errors.New("invalid seam")

	// ErrEmptyImage is returned when the image to carve has no pixels.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrUnsupportedFormat is returned for output files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

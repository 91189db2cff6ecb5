package seamcut

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_ShrinkImageWidth(t *testing.T) {
	src := noiseImage(20, 10, 1)
	orig := slices.Clone(src.Pix)

	p := &Processor{SeamWidth: 5}
	img, mask, err := p.Carve(src)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 15, 10), img.Bounds())
	assert.Equal(t, 15, mask.Width)
	assert.Equal(t, 10, mask.Height)

	// The source image should be left untouched.
	assert.Equal(t, orig, src.Pix)
	assert.Equal(t, image.Rect(0, 0, 20, 10), src.Bounds())
}

func TestProcessor_DefaultSeamWidth(t *testing.T) {
	p := &Processor{SeamWidth: -1}
	img, _, err := p.Carve(noiseImage(30, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, 27, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestProcessor_ZeroSeamWidth(t *testing.T) {
	src := noiseImage(8, 4, 3)
	p := &Processor{SeamWidth: 0}
	img, _, err := p.Carve(src)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, img.Pix)
}

func TestProcessor_InvalidSeamWidth(t *testing.T) {
	p := &Processor{SeamWidth: 20}
	_, _, err := p.Carve(noiseImage(20, 10, 1))
	assert.ErrorIs(t, err, ErrInvalidSeamWidth)

	p.SeamWidth = 25
	_, _, err = p.Carve(noiseImage(20, 10, 1))
	assert.ErrorIs(t, err, ErrInvalidSeamWidth)
}

func TestProcessor_AutoResize(t *testing.T) {
	const width, height = 12, 8

	maskImg := uniformImage(width, height, color.White)
	for y := 2; y < 6; y++ {
		for x := 4; x < 7; x++ {
			maskImg.Set(x, y, color.Black)
		}
	}

	p := &Processor{
		SeamWidth:  1,
		MaskImage:  maskImg,
		AutoResize: true,
	}
	img, mask, err := p.Carve(noiseImage(width, height, 4))
	require.NoError(t, err)
	assert.Equal(t, width-3, img.Bounds().Dx())
	assert.Equal(t, width-3, mask.Width)
}

func TestProcessor_AutoResizeWithoutMask(t *testing.T) {
	p := &Processor{SeamWidth: -1, AutoResize: true}
	img, _, err := p.Carve(noiseImage(20, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, 18, img.Bounds().Dx())
}

func TestProcessor_MaskRemovesMarkedColumn(t *testing.T) {
	const width, height = 6, 4

	mask := NeutralMask(width, height)
	mask.Fill(image.Rect(3, 0, 4, height), BiasRemove)

	p := &Processor{SeamWidth: 1, Mask: mask}
	img, res, err := p.Carve(splitImage(width, height))
	require.NoError(t, err)
	assert.Equal(t, width-1, img.Bounds().Dx())

	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			assert.Equal(t, BiasNeutral, res.At(x, y))
		}
	}
	// The caller's mask should not be narrowed.
	assert.Equal(t, width, mask.Width)
	assert.Equal(t, BiasRemove, mask.At(3, 0))
}

func TestProcessor_MaskDimensionMismatch(t *testing.T) {
	p := &Processor{SeamWidth: 1, Mask: NeutralMask(5, 5)}
	_, _, err := p.Carve(noiseImage(20, 10, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestProcessor_MissingMaskFile(t *testing.T) {
	p := &Processor{
		SeamWidth:  2,
		MaskPath:   filepath.Join(t.TempDir(), "missing.png"),
		AutoResize: true,
	}
	img, mask, err := p.Carve(noiseImage(10, 4, 6))
	require.NoError(t, err)

	// Without a valid mask the auto width is ignored.
	assert.Equal(t, 8, img.Bounds().Dx())
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			assert.Equal(t, BiasNeutral, mask.At(x, y))
		}
	}
}

func TestProcessor_UniformImage(t *testing.T) {
	p := &Processor{SeamWidth: 1}
	img, mask, err := p.Carve(uniformImage(3, 3, color.Gray{Y: 0x80}))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 2, 3), img.Bounds())
	assert.Equal(t, 2, mask.Width)
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, BiasNeutral, mask.At(x, y))
			assert.Equal(t, uint8(0x80), img.NRGBAAt(x, y).R)
		}
	}
}

func TestProcessor_Observers(t *testing.T) {
	const width, height, seamWidth = 10, 6, 4

	var steps []Step
	p := &Processor{
		SeamWidth: seamWidth,
		Observers: []Observer{ObserverFunc(func(step *Step) {
			steps = append(steps, Step{
				Iteration: step.Iteration,
				Total:     step.Total,
				Energy:    step.Energy,
				Seam:      step.Seam,
			})
			assert.Equal(t, width-step.Iteration-1, step.Image.Bounds().Dx())
			assert.Equal(t, width-step.Iteration-1, step.Mask.Width)
		})},
	}
	_, _, err := p.Carve(noiseImage(width, height, 7))
	require.NoError(t, err)

	require.Len(t, steps, seamWidth)
	for i, step := range steps {
		assert.Equal(t, i, step.Iteration)
		assert.Equal(t, seamWidth, step.Total)
		assert.Equal(t, width-i, step.Energy.Width)
		assert.Len(t, step.Seam, height)
	}
}

func TestProcessor_Process(t *testing.T) {
	var in, out bytes.Buffer
	require.NoError(t, png.Encode(&in, noiseImage(20, 10, 8)))

	p := &Processor{SeamWidth: 5}
	require.NoError(t, p.Process(&in, &out))

	// Anything else than a file is encoded as jpeg.
	assert.Equal(t, []byte{0xff, 0xd8}, out.Bytes()[:2])

	img, format, err := image.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Rect(0, 0, 15, 10), img.Bounds())
}

func TestProcessor_CompareDiscardedOutput(t *testing.T) {
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, noiseImage(10, 4, 9)))

	out, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer out.Close()

	p := &Processor{SeamWidth: 2, Compare: true}
	assert.NoError(t, p.Process(&in, out))
}

func TestProcessor_EmptyImage(t *testing.T) {
	p := &Processor{SeamWidth: -1}
	_, _, err := p.Carve(image.NewNRGBA(image.Rect(0, 0, 12, 0)))
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestProcessor_ProcessInvalidSource(t *testing.T) {
	p := &Processor{SeamWidth: 1}
	err := p.Process(bytes.NewBufferString("not an image"), &bytes.Buffer{})
	assert.Error(t, err)
}

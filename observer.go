package seamcut

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/esimov/seamcut/utils"
	"github.com/lucasb-eyer/go-colorful"
)

// defaultSeamColor is used for the seam overlay when no valid color is provided.
const defaultSeamColor = "#00ff00"

// Step describes a completed carving iteration.
// Image and Mask are the narrowed grids owned by the carving run; observers must not modify them.
type Step struct {
	Name      string
	Iteration int
	Total     int
	Energy    *EnergyMap
	Seam      []Seam
	Image     *image.NRGBA
	Mask      *Mask
}

// Observer is notified after every carving iteration.
type Observer interface {
	Observe(step *Step)
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(step *Step)

// Observe calls f(step).
func (f ObserverFunc) Observe(step *Step) {
	f(step)
}

// ProgressObserver reports the carving progress to the spinner.
func ProgressObserver(s *utils.Spinner) Observer {
	return ObserverFunc(func(step *Step) {
		s.SetProgress(step.Iteration+1, step.Total)
	})
}

// DebugWriter saves for every iteration the energy map with the removed seam drawn over it,
// and the mask left after the removal, as PNG files.
// Steps of a named image go into a subdirectory of Dir holding that name.
type DebugWriter struct {
	Dir       string
	SeamColor color.Color
}

// NewDebugWriter creates the output directory and parses the seam color given in hex notation.
func NewDebugWriter(dir, seamColor string) (*DebugWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create the debug directory: %w", err)
	}
	if seamColor == "" {
		seamColor = defaultSeamColor
	}
	col, err := colorful.Hex(seamColor)
	if err != nil {
		return nil, fmt.Errorf("invalid seam color %q: %w", seamColor, err)
	}
	return &DebugWriter{Dir: dir, SeamColor: col}, nil
}

// Observe implements the Observer interface.
func (d *DebugWriter) Observe(step *Step) {
	energy := step.Energy.Image()
	files := map[string]image.Image{
		"energy": energy,
		"seam":   drawSeam(energy, step.Seam, d.SeamColor),
		"mask":   step.Mask.Image(),
	}
	dir := d.Dir
	if step.Name != "" {
		dir = filepath.Join(d.Dir, step.Name)
		if step.Iteration == 0 {
			if err := os.MkdirAll(dir, 0755); err != nil {
				utils.Logf("could not create the debug directory %s: %v", dir, err)
				return
			}
		}
	}
	for kind, img := range files {
		name := filepath.Join(dir, fmt.Sprintf("%04d_%s.png", step.Iteration, kind))
		if err := imaging.Save(img, name); err != nil {
			utils.Logf("could not save the debug image %s: %v", name, err)
		}
	}
}

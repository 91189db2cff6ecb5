package seamcut

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/esimov/seamcut/utils"
)

// minFaceQuality is the detection score above which a face is protected.
const minFaceQuality = 5.0

// protectFaces runs the face detector over the image and marks every detected face for preservation in the mask.
func (p *Processor) protectFaces(img *image.NRGBA, mask *Mask) error {
	if p.Classifier == "" {
		return fmt.Errorf("face detection requires a cascade classifier file")
	}
	cascade, err := os.ReadFile(p.Classifier)
	if err != nil {
		return fmt.Errorf("could not read the cascade file: %w", err)
	}

	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	detector, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return fmt.Errorf("error unpacking the cascade file: %w", err)
	}

	dx, dy := img.Bounds().Dx(), img.Bounds().Dy()
	cParams := pigo.CascadeParams{
		MinSize:     utils.Min(100, utils.Min(dx, dy)),
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: rgbToGrayscale(img),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := detector.RunCascade(cParams, p.FaceAngle)

	// Calculate the intersection over union (IoU) of two clusters.
	faces = detector.ClusterDetections(faces, 0.2)

	rects := faceRects(faces)
	for _, rect := range rects {
		mask.Fill(rect, BiasPreserve)
	}
	utils.Logf("faces protected: %d", len(rects))

	return nil
}

// faceRects converts the face detections above the quality threshold into image rectangles.
func faceRects(faces []pigo.Detection) []image.Rectangle {
	rects := make([]image.Rectangle, 0, len(faces))
	for _, face := range faces {
		if face.Q > minFaceQuality {
			rects = append(rects, image.Rect(
				face.Col-face.Scale/2,
				face.Row-face.Scale/2,
				face.Col+face.Scale/2,
				face.Row+face.Scale/2,
			))
		}
	}
	return rects
}

package facerec

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultThreshold is the maximum Euclidean distance at which a probe face
// is accepted as a gallery match. Tune point, not derived from data.
const DefaultThreshold = 0.5

// Recognizer resolves an uploaded frame to an employee id using nearest
// neighbour search over the gallery.
type Recognizer struct {
	gallery   *Gallery
	engine    Engine
	threshold float64
}

// NewRecognizer creates a recognizer. threshold <= 0 selects the default.
func NewRecognizer(gallery *Gallery, engine Engine, threshold float64) *Recognizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Recognizer{gallery: gallery, engine: engine, threshold: threshold}
}

// Recognize returns the best-matching employee id for the first face in the
// image. found is false when no face is detected, the gallery is empty, or
// the nearest match is at or beyond the distance threshold.
func (r *Recognizer) Recognize(img []byte) (empID string, found bool, err error) {
	desc, ok, err := r.engine.Extract(img)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	snap := r.gallery.current()
	if len(snap.entries) == 0 {
		return "", false, nil
	}

	probe := toFloat64(desc)
	bestID := ""
	bestDist := -1.0
	for _, e := range snap.entries {
		d := floats.Distance(probe, e.vec, 2)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestID = e.empID
		}
	}
	if bestDist >= r.threshold {
		return "", false, nil
	}
	return bestID, true, nil
}

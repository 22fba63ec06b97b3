package facerec

import (
	"fmt"

	face "github.com/Kagami/go-face"
)

// Descriptor is a 128-dimensional face encoding.
type Descriptor [128]float32

// Engine extracts a face descriptor from an encoded image. Implementations
// must be safe for concurrent use by HTTP handlers.
type Engine interface {
	// Extract returns the descriptor of the first detected face. found is
	// false when the image contains no detectable face.
	Extract(img []byte) (desc Descriptor, found bool, err error)
}

// DlibEngine wraps the dlib-backed go-face recognizer. It needs the model
// files (shape predictor, resnet encoder, cnn detector) in modelsDir.
type DlibEngine struct {
	rec *face.Recognizer
}

// NewDlibEngine initialises the dlib recognizer from a models directory.
func NewDlibEngine(modelsDir string) (*DlibEngine, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("init face recognizer: %w", err)
	}
	return &DlibEngine{rec: rec}, nil
}

// Extract detects faces in a JPEG image and returns the first descriptor.
// Frames may contain several people; only the first face is considered.
func (e *DlibEngine) Extract(img []byte) (Descriptor, bool, error) {
	faces, err := e.rec.Recognize(img)
	if err != nil {
		return Descriptor{}, false, fmt.Errorf("recognize: %w", err)
	}
	if len(faces) == 0 {
		return Descriptor{}, false, nil
	}
	return Descriptor(faces[0].Descriptor), true, nil
}

// Close releases the underlying dlib resources.
func (e *DlibEngine) Close() {
	e.rec.Close()
}

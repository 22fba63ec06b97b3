package facerec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func galleryWith(t *testing.T, engine Engine, photos map[string]string) *Gallery {
	t.Helper()
	dir := t.TempDir()
	for id, content := range photos {
		writePhoto(t, dir, id+".jpg", content)
	}
	g := NewGallery(dir, engine)
	require.NoError(t, g.Reload())
	return g
}

func TestRecognizeEmptyGallery(t *testing.T) {
	engine := newStubEngine()
	g := galleryWith(t, engine, nil)
	r := NewRecognizer(g, engine, 0.5)

	_, found, err := r.Recognize([]byte("alice"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecognizeNoFace(t *testing.T) {
	engine := newStubEngine()
	g := galleryWith(t, engine, map[string]string{"E001": "alice"})
	r := NewRecognizer(g, engine, 0.5)

	_, found, err := r.Recognize([]byte("landscape-photo"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecognizeNearestNeighbour(t *testing.T) {
	engine := newStubEngine()
	// alice at 0.0, bob at 1.0; a probe at 0.3 is nearest to alice and
	// inside the threshold.
	engine.descs["probe-near-alice"] = desc(0.3)
	g := galleryWith(t, engine, map[string]string{"E001": "alice", "E002": "bob"})
	r := NewRecognizer(g, engine, 0.5)

	id, found, err := r.Recognize([]byte("probe-near-alice"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "E001", id)
}

func TestRecognizeThresholdExclusive(t *testing.T) {
	engine := newStubEngine()
	engine.descs["probe-at-threshold"] = desc(0.5) // distance to alice exactly 0.5
	engine.descs["probe-just-inside"] = desc(0.49)
	g := galleryWith(t, engine, map[string]string{"E001": "alice"})
	r := NewRecognizer(g, engine, 0.5)

	_, found, err := r.Recognize([]byte("probe-at-threshold"))
	require.NoError(t, err)
	assert.False(t, found, "distance equal to threshold must not match")

	id, found, err := r.Recognize([]byte("probe-just-inside"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "E001", id)
}

func TestRecognizeEngineError(t *testing.T) {
	engine := newStubEngine()
	g := galleryWith(t, engine, map[string]string{"E001": "alice"})
	r := NewRecognizer(g, engine, 0.5)

	_, _, err := r.Recognize([]byte("corrupt"))
	assert.Error(t, err)
}

package facerec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine maps image bytes to canned descriptors so gallery and
// recognizer behaviour can be tested without dlib or real photos.
type stubEngine struct {
	descs map[string]Descriptor
}

func (s *stubEngine) Extract(img []byte) (Descriptor, bool, error) {
	key := string(img)
	if key == "corrupt" {
		return Descriptor{}, false, errors.New("decode failed")
	}
	d, ok := s.descs[key]
	return d, ok, nil
}

func desc(first float32) Descriptor {
	var d Descriptor
	d[0] = first
	return d
}

func writePhoto(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newStubEngine() *stubEngine {
	return &stubEngine{descs: map[string]Descriptor{
		"alice": desc(0.0),
		"bob":   desc(1.0),
		"carol": desc(2.0),
	}}
}

func TestGalleryReload(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "E001.jpg", "alice")
	writePhoto(t, dir, "E002.jpg", "bob")
	writePhoto(t, dir, "notes.txt", "ignored")

	g := NewGallery(dir, newStubEngine())
	require.NoError(t, g.Reload())

	assert.Equal(t, 2, g.Size())
	assert.Equal(t, []string{"E001", "E002"}, g.IDs())
}

func TestGalleryReloadSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "E001.jpg", "alice")
	writePhoto(t, dir, "E002.jpg", "corrupt")
	writePhoto(t, dir, "E003.jpg", "nobody-known") // no face detected

	g := NewGallery(dir, newStubEngine())
	require.NoError(t, g.Reload())

	assert.Equal(t, []string{"E001"}, g.IDs())
}

func TestGalleryReloadIdempotent(t *testing.T) {
	dir := t.TempDir()
	writePhoto(t, dir, "E001.jpg", "alice")
	writePhoto(t, dir, "E002.jpg", "bob")

	g := NewGallery(dir, newStubEngine())
	require.NoError(t, g.Reload())
	first := g.IDs()
	require.NoError(t, g.Reload())

	assert.Equal(t, first, g.IDs())
	assert.Equal(t, 2, g.Size())
}

func TestGalleryRegisterOverwrites(t *testing.T) {
	dir := t.TempDir()
	g := NewGallery(dir, newStubEngine())

	path, err := g.Register("E001", []byte("alice"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "E001.jpg"), path)
	assert.Equal(t, []string{"E001"}, g.IDs())

	// Re-registration replaces the photo, not the roster.
	_, err = g.Register("E001", []byte("bob"))
	require.NoError(t, err)
	assert.Equal(t, []string{"E001"}, g.IDs())

	r := NewRecognizer(g, newStubEngine(), 0.5)
	id, found, err := r.Recognize([]byte("bob"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "E001", id)
}

func TestGalleryReloadMissingDir(t *testing.T) {
	g := NewGallery(filepath.Join(t.TempDir(), "missing"), newStubEngine())
	assert.Error(t, g.Reload())
	assert.Equal(t, 0, g.Size())
}

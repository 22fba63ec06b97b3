package facerec

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
)

// entry pairs an employee id with the descriptor extracted from their
// reference photo. Descriptors are kept as float64 slices so distance
// computations can use gonum directly.
type entry struct {
	empID string
	vec   []float64
}

type snapshot struct {
	entries []entry
}

// Gallery is the in-memory index of known faces, rebuilt wholesale from a
// directory of reference photos named <emp_id>.jpg. Reload publishes a fully
// built snapshot atomically, so concurrent readers never observe a partially
// cleared index.
type Gallery struct {
	dir    string
	engine Engine
	snap   atomic.Pointer[snapshot]
}

// NewGallery creates an empty gallery over the given photo directory.
func NewGallery(dir string, engine Engine) *Gallery {
	g := &Gallery{dir: dir, engine: engine}
	g.snap.Store(&snapshot{})
	return g
}

// Reload rescans the photo directory and swaps in the rebuilt index. A photo
// that cannot be read or contains no detectable face is skipped with a log
// line; the rest of the reload continues.
func (g *Gallery) Reload() error {
	files, err := os.ReadDir(g.dir)
	if err != nil {
		return fmt.Errorf("read photo dir: %w", err)
	}

	byID := make(map[string][]float64)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		img, err := os.ReadFile(filepath.Join(g.dir, name))
		if err != nil {
			log.Printf("gallery: skipping %s: %v", name, err)
			continue
		}
		desc, found, err := g.engine.Extract(img)
		if err != nil {
			log.Printf("gallery: skipping %s: %v", name, err)
			continue
		}
		if !found {
			log.Printf("gallery: no face in %s, skipping", name)
			continue
		}
		// Last-loaded wins when the same id exists with both extensions.
		byID[strings.TrimSuffix(name, ext)] = toFloat64(desc)
	}

	entries := make([]entry, 0, len(byID))
	for id, vec := range byID {
		entries = append(entries, entry{empID: id, vec: vec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].empID < entries[j].empID })

	g.snap.Store(&snapshot{entries: entries})
	return nil
}

// Register writes the photo as <dir>/<empID>.jpg, overwriting any previous
// photo for that id, then reloads the index. Recognition picks up the new
// face as soon as Register returns.
func (g *Gallery) Register(empID string, photo []byte) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	path := filepath.Join(g.dir, empID+".jpg")
	if err := os.WriteFile(path, photo, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	if err := g.Reload(); err != nil {
		return "", err
	}
	return path, nil
}

// Size returns the number of indexed faces.
func (g *Gallery) Size() int {
	return len(g.snap.Load().entries)
}

// IDs returns the indexed employee ids in sorted order.
func (g *Gallery) IDs() []string {
	entries := g.snap.Load().entries
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.empID
	}
	return ids
}

func (g *Gallery) current() *snapshot {
	return g.snap.Load()
}

func toFloat64(d Descriptor) []float64 {
	vec := make([]float64, len(d))
	for i, v := range d {
		vec[i] = float64(v)
	}
	return vec
}

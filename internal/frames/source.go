package frames

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Store returns the decoded bitmap backing a clip.
type Store interface {
	Load(name string) (*Bitmap, error)
}

// DirStore reads BMP files named <Path>/<name><Extension>.
type DirStore struct {
	Path      string
	Extension string
}

// Filename returns the file a clip is read from.
func (s DirStore) Filename(name string) string {
	ext := s.Extension
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(s.Path, name+ext)
}

// Load decodes the clip's bitmap file.
func (s DirStore) Load(name string) (*Bitmap, error) {
	path := s.Filename(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := bmp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	bm, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}

// Source loads clips from a Store and classifies them against the panel
// geometry.
type Source struct {
	store    Store
	geometry Geometry
}

// NewSource creates a frame source for the given panel geometry.
func NewSource(store Store, geometry Geometry) *Source {
	return &Source{
		store:    store,
		geometry: geometry,
	}
}

// Geometry returns the panel geometry strips are classified against.
func (s *Source) Geometry() Geometry {
	return s.geometry
}

// Load reads the named clip and returns it as a strip tagged with its size
// class and frame count. Store failures are reported as ErrDecode, bad
// dimensions as ErrUnsupportedGeometry.
func (s *Source) Load(name string) (*Strip, error) {
	bm, err := s.store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := bm.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	class, n, err := s.geometry.Classify(bm.Buffer.Width, bm.Buffer.Height)
	if err != nil {
		return nil, err
	}

	tw, th := s.geometry.Tile(class)
	return &Strip{
		Buffer:     bm.Buffer,
		Palette:    bm.Palette,
		Class:      class,
		Frames:     n,
		TileWidth:  tw,
		TileHeight: th,
	}, nil
}

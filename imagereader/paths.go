package imagereader

import (
	"path/filepath"

	"github.com/jmgilman/go/errors"
)

// Dirs is the configured base directory. A single directory ignores the
// index passed to ResolvePath; a list selects by index and bounds-checks it.
type Dirs struct {
	Paths []string
	List  bool
}

// SingleDir configures one base directory
func SingleDir(path string) Dirs {
	return Dirs{Paths: []string{path}}
}

// DirList configures an ordered list of base directories
func DirList(paths ...string) Dirs {
	return Dirs{Paths: paths, List: true}
}

// Current returns the base directory selected by idx
func (d Dirs) Current(idx int) (string, error) {
	if !d.List {
		if len(d.Paths) == 0 {
			return "", errors.New(errors.CodeInvalidConfig, "no image directory configured")
		}
		return d.Paths[0], nil
	}
	if idx < 0 || idx >= len(d.Paths) {
		err := errors.Newf(errors.CodeInvalidInput, "image directory index %d out of range [0, %d)", idx, len(d.Paths))
		return "", errors.WithContext(err, "image_dir_idx", idx)
	}
	return d.Paths[idx], nil
}

// Join resolves filename against the directory selected by idx. An
// absolute filename is returned unchanged.
func (d Dirs) Join(filename string, idx int) (string, error) {
	dir, err := d.Current(idx)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	return filepath.Join(dir, filename), nil
}

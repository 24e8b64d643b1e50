// Package imagereader resolves image filenames against configured base
// directories and decodes them, optionally through a key-value cache of
// JPEG-encoded copies.
package imagereader

// Reader is the closed set of image readers. Only the opencv and imagelib
// backends implement it; callers type-switch on the concrete reader to get
// at the backend-specific image type.
type Reader interface {
	// Kind reports which backend the reader is
	Kind() Kind

	// ImageDirectory returns the configured base directories
	ImageDirectory() Dirs

	// ColorMode returns the colour mode images are decoded into
	ColorMode() ColorMode

	// ResolvePath joins filename onto the base directory selected by idx
	ResolvePath(filename string, idx int) (string, error)

	// Close releases the cache client and shape table owned by the reader
	Close() error

	sealed()
}

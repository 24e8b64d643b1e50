package imagereader

import (
	"io"
	"path/filepath"

	"imagereader/cache"
	"imagereader/logging"
	"imagereader/types"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/fs/core"
)

// Codec is the backend half of a reader: it turns file bytes into an image
// in the configured colour mode and moves images in and out of the cache.
type Codec[T any] interface {
	// DecodeFile decodes the raw bytes of an image file
	DecodeFile(data []byte) (T, error)

	// Encode produces the bytes stored in the cache
	Encode(img T) ([]byte, error)

	// DecodeCached decodes bytes produced by Encode
	DecodeCached(data []byte) (T, error)

	// Shape reports the layout of a decoded image
	Shape(img T) types.Shape
}

// Base implements the cache-aside read path shared by all backends.
//
// The shape table is owned by the Base. The default table is safe for
// concurrent use, so a Base may be shared between goroutines as long as the
// cache and codec are.
type Base[T any] struct {
	kind   Kind
	dirs   Dirs
	mode   ColorMode
	codec  Codec[T]
	fs     core.FS
	cache  cache.Cache
	shapes ShapeTable
}

// NewBase wires a codec into a reader. Colour mode validation is the
// backend's job and must happen before NewBase is called.
func NewBase[T any](kind Kind, cfg Config, codec Codec[T], opts ...Option) *Base[T] {
	o := options{}
	for _, opt := range opts {
		opt.apply(&o)
	}
	if o.fs == nil {
		o.fs = billy.NewLocal()
	}
	if o.shapes == nil {
		o.shapes = NewMemoryShapes()
	}

	return &Base[T]{
		kind:   kind,
		dirs:   cfg.ImageDir,
		mode:   cfg.ColorMode,
		codec:  codec,
		fs:     o.fs,
		cache:  o.cache,
		shapes: o.shapes,
	}
}

func (b *Base[T]) sealed() {}

// Kind reports the backend
func (b *Base[T]) Kind() Kind {
	return b.kind
}

// ImageDirectory returns the configured base directories
func (b *Base[T]) ImageDirectory() Dirs {
	return b.dirs
}

// ColorMode returns the configured colour mode
func (b *Base[T]) ColorMode() ColorMode {
	return b.mode
}

// Cached reports whether reads go through a cache
func (b *Base[T]) Cached() bool {
	return b.cache != nil
}

// Shapes exposes the shape table
func (b *Base[T]) Shapes() ShapeTable {
	return b.shapes
}

// ShapeOf reports the layout of an image returned by this reader
func (b *Base[T]) ShapeOf(img T) types.Shape {
	return b.codec.Shape(img)
}

// ResolvePath joins filename onto the base directory selected by idx
func (b *Base[T]) ResolvePath(filename string, idx int) (string, error) {
	return b.dirs.Join(filename, idx)
}

// LoadImage resolves filename against the directory selected by
// imageDirIdx and reads it.
func (b *Base[T]) LoadImage(filename string, imageDirIdx int) (T, error) {
	path, err := b.ResolvePath(filename, imageDirIdx)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Read(path)
}

// Read decodes the image at path. With a cache configured, a path seen
// before is decoded from its cached JPEG copy and a new path is decoded from
// disk and stored. Cache failures are logged and answered from disk; only a
// missing or undecodable file is an error.
func (b *Base[T]) Read(path string) (T, error) {
	if b.cache == nil {
		return b.ReadFile(path)
	}

	key := HashFilename(path)
	if b.shapes.Seen(key) {
		img, cerr := b.readCached(key)
		if cerr == nil {
			logging.LogImageRead(path, "cache")
			return img, nil
		}
		if !errors.Is(cerr, cache.ErrNotFound) {
			b.warn(cerr)
			return b.ReadFile(path)
		}
		logging.DebugLog("cache entry %s for %s is gone, storing again", key, path)
	}

	img, err := b.ReadFile(path)
	if err != nil {
		return img, err
	}
	if cerr := b.store(key, path, img); cerr != nil {
		b.warn(cerr)
	}
	return img, nil
}

// ReadFile decodes the image at path from the filesystem, bypassing the
// cache.
func (b *Base[T]) ReadFile(path string) (T, error) {
	var zero T

	fsPath := b.fsPath(path)
	exists, err := b.fs.Exists(fsPath)
	if err != nil {
		return zero, errors.Wrapf(err, errors.CodeInternal, "cannot stat image file %s", path)
	}
	if !exists {
		return zero, errors.WithContext(
			errors.Newf(errors.CodeNotFound, "image file does not exist: %s", path), "path", path)
	}

	data, err := b.fs.ReadFile(fsPath)
	if err != nil {
		return zero, errors.Wrapf(err, errors.CodeInternal, "cannot read image file %s", path)
	}

	img, err := b.codec.DecodeFile(data)
	if err != nil {
		return zero, errors.Wrapf(err, errors.CodeInvalidInput, "failed to decode image %s", path)
	}

	logging.LogImageRead(path, "disk")
	return img, nil
}

// Close releases the cache and the shape table when they hold resources
func (b *Base[T]) Close() error {
	var firstErr error
	if b.cache != nil {
		if err := b.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if c, ok := b.shapes.(io.Closer); ok {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (b *Base[T]) readCached(key string) (T, *CacheError) {
	var zero T

	data, err := b.cache.Get(key)
	if err != nil {
		return zero, newCacheError(OpGet, key, err)
	}
	if len(data) == 0 {
		return zero, newCacheError(OpGet, key, errors.New(errors.CodeInvalidInput, "empty payload"))
	}

	img, err := b.codec.DecodeCached(data)
	if err != nil {
		return zero, newCacheError(OpDecode, key, err)
	}
	return img, nil
}

func (b *Base[T]) store(key, path string, img T) *CacheError {
	data, err := b.codec.Encode(img)
	if err != nil {
		return newCacheError(OpEncode, key, err)
	}
	if err := b.cache.Set(key, data); err != nil {
		return newCacheError(OpSet, key, err)
	}
	if err := b.shapes.Record(key, path, b.codec.Shape(img)); err != nil {
		return newCacheError(OpRecord, key, err)
	}
	return nil
}

func (b *Base[T]) warn(err *CacheError) {
	logging.LogWarning("memcached exception %v, using file read", err)
}

// fsPath makes relative paths absolute for the local filesystem, which is
// rooted at "/".
func (b *Base[T]) fsPath(path string) string {
	if b.fs.Type() != core.FSTypeLocal || filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

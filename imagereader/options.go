package imagereader

import (
	"imagereader/cache"

	"github.com/jmgilman/go/fs/core"
)

// Config holds the backend-independent reader settings
type Config struct {
	ImageDir  Dirs
	ColorMode ColorMode
	ToFloat32 bool // opencv only
}

type options struct {
	fs     core.FS
	cache  cache.Cache
	shapes ShapeTable
}

// Option configures a reader
type Option interface {
	apply(*options)
}

type funcOpt func(*options)

func (f funcOpt) apply(o *options) {
	f(o)
}

// WithFS reads image files from fsys instead of the local disk
func WithFS(fsys core.FS) Option {
	return funcOpt(func(o *options) {
		o.fs = fsys
	})
}

// WithCache enables the cache-aside path. A nil cache disables it.
func WithCache(c cache.Cache) Option {
	return funcOpt(func(o *options) {
		o.cache = c
	})
}

// WithShapeTable replaces the in-memory shape table, e.g. with a
// persistent ledger.
func WithShapeTable(t ShapeTable) Option {
	return funcOpt(func(o *options) {
		o.shapes = t
	})
}

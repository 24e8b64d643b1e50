// Package registry builds image readers from configuration.
package registry

import (
	"imagereader/cache"
	"imagereader/config"
	"imagereader/database"
	"imagereader/imagelib"
	"imagereader/imagereader"
	"imagereader/logging"
	"imagereader/opencv"
	"imagereader/types"

	"github.com/jmgilman/go/errors"
)

// Build constructs the reader named by cfg.Type. The returned reader owns
// its cache client and shape ledger; callers must Close it.
func Build(cfg config.ReaderConfig, opts ...imagereader.Option) (imagereader.Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := NewCache(cfg.Kwargs)
	if err != nil {
		return nil, err
	}

	var ledger *database.Ledger
	if cfg.Kwargs.ShapeDB != "" {
		ledger, err = database.OpenLedger(cfg.Kwargs.ShapeDB)
		if err != nil {
			closeCache(c)
			return nil, errors.Wrap(err, errors.CodeDatabase, "opening shape ledger")
		}
	}

	all := make([]imagereader.Option, 0, len(opts)+2)
	if c != nil {
		all = append(all, imagereader.WithCache(c))
	}
	if ledger != nil {
		all = append(all, imagereader.WithShapeTable(ledger))
	}
	all = append(all, opts...)

	r, err := build(imagereader.Kind(cfg.Type), cfg.Kwargs.ReaderOptions(), all)
	if err != nil {
		closeCache(c)
		if ledger != nil {
			ledger.Close()
		}
		return nil, err
	}

	logging.DebugLog("Built %s reader for %v (cached: %v)", cfg.Type, cfg.Kwargs.ImageDir.Paths, c != nil)
	return r, nil
}

// BuildFromFile loads a YAML config and builds the reader it describes
func BuildFromFile(path string, opts ...imagereader.Option) (imagereader.Reader, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return Build(cfg, opts...)
}

func build(kind imagereader.Kind, cfg imagereader.Config, opts []imagereader.Option) (imagereader.Reader, error) {
	switch kind {
	case imagereader.KindOpenCV:
		return opencv.New(cfg, opts...)
	case imagereader.KindImaging:
		return imagelib.New(cfg, opts...)
	}
	return nil, errors.Newf(errors.CodeInvalidConfig, "unknown image reader type %q", kind)
}

// ReadInfo reads path through r and describes the result. Backend images
// are released before returning.
func ReadInfo(r imagereader.Reader, path string) (types.ImageInfo, error) {
	info := types.ImageInfo{
		Path:      path,
		CacheKey:  imagereader.HashFilename(path),
		Backend:   string(r.Kind()),
		ColorMode: string(r.ColorMode()),
	}

	switch rr := r.(type) {
	case *opencv.Reader:
		img, err := rr.Read(path)
		if err != nil {
			return info, err
		}
		defer img.Close()
		info.Shape = rr.ShapeOf(img)
		info.Float32 = rr.ToFloat32()
	case *imagelib.Reader:
		img, err := rr.Read(path)
		if err != nil {
			return info, err
		}
		info.Shape = rr.ShapeOf(img)
	default:
		return info, errors.Newf(errors.CodeInternal, "unsupported reader %T", r)
	}
	return info, nil
}

// NewCache returns the cache client configured in kwargs, or nil when
// caching is disabled.
func NewCache(kwargs config.Kwargs) (cache.Cache, error) {
	switch {
	case kwargs.Memcached != nil:
		m := kwargs.Memcached
		return cache.NewMemcached(m.Host, m.Port, m.PoolSize, m.Timeout), nil
	case kwargs.Bitcask != nil:
		b, err := cache.OpenBitcask(kwargs.Bitcask.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, nil
}

func closeCache(c cache.Cache) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.LogWarning("closing cache: %v", err)
	}
}

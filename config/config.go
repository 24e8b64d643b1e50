// Package config loads image reader configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"imagereader/cache"
	"imagereader/imagereader"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// ReaderConfig selects a backend by type and passes it kwargs
type ReaderConfig struct {
	Type   string `yaml:"type"`
	Kwargs Kwargs `yaml:"kwargs"`
}

// Kwargs are the reader options
type Kwargs struct {
	ImageDir  ImageDir         `yaml:"image_dir"`
	ColorMode string           `yaml:"color_mode"`
	ToFloat32 bool             `yaml:"to_float32"`
	Memcached *MemcachedConfig `yaml:"memcached"`
	Bitcask   *BitcaskConfig   `yaml:"bitcask"`
	ShapeDB   string           `yaml:"shape_db"`
}

// MemcachedConfig enables the memcached cache. Absent means no caching.
type MemcachedConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	PoolSize int           `yaml:"pool_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// BitcaskConfig enables a local on-disk cache instead of memcached
type BitcaskConfig struct {
	Path string `yaml:"path"`
}

// ImageDir is a single directory or an ordered list of directories
type ImageDir struct {
	Paths []string
	List  bool
}

// UnmarshalYAML accepts either a string or a sequence of strings
func (d *ImageDir) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		d.Paths, d.List = []string{s}, false
		return nil
	case yaml.SequenceNode:
		var paths []string
		if err := value.Decode(&paths); err != nil {
			return err
		}
		d.Paths, d.List = paths, true
		return nil
	}
	return fmt.Errorf("line %d: image_dir must be a string or a list of strings", value.Line)
}

// MarshalYAML writes the directory back in the form it was read
func (d ImageDir) MarshalYAML() (interface{}, error) {
	if !d.List && len(d.Paths) == 1 {
		return d.Paths[0], nil
	}
	return d.Paths, nil
}

// Default returns a ReaderConfig with all defaults applied
func Default() ReaderConfig {
	return ReaderConfig{
		Type: string(imagereader.KindOpenCV),
		Kwargs: Kwargs{
			ColorMode: string(imagereader.RGB),
		},
	}
}

// Parse decodes YAML into a ReaderConfig and applies defaults
func Parse(data []byte) (ReaderConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ReaderConfig{}, errors.Wrap(err, errors.CodeInvalidConfig, "parsing reader config")
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// Load reads and parses a YAML config file
func Load(path string) (ReaderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReaderConfig{}, errors.Wrapf(err, errors.CodeNotFound, "reading config file %s", path)
	}
	return Parse(data)
}

func (c *ReaderConfig) applyDefaults() {
	if m := c.Kwargs.Memcached; m != nil {
		if m.Host == "" {
			m.Host = cache.DefaultHost
		}
		if m.Port == 0 {
			m.Port = cache.DefaultPort
		}
		if m.PoolSize == 0 {
			m.PoolSize = cache.DefaultPoolSize
		}
	}
}

// Validate checks the backend type and cache settings. Colour modes are
// checked by the backend when the reader is built.
func (c ReaderConfig) Validate() error {
	known := false
	for _, k := range imagereader.Kinds() {
		if imagereader.Kind(c.Type) == k {
			known = true
		}
	}
	if !known {
		return errors.Newf(errors.CodeInvalidConfig, "unknown image reader type %q", c.Type)
	}
	if len(c.Kwargs.ImageDir.Paths) == 0 {
		return errors.New(errors.CodeInvalidConfig, "image_dir is required")
	}
	if c.Kwargs.Memcached != nil && c.Kwargs.Bitcask != nil {
		return errors.New(errors.CodeInvalidConfig, "memcached and bitcask caches are mutually exclusive")
	}
	if c.Kwargs.Bitcask != nil && c.Kwargs.Bitcask.Path == "" {
		return errors.New(errors.CodeInvalidConfig, "bitcask.path is required")
	}
	if c.Kwargs.ToFloat32 && imagereader.Kind(c.Type) != imagereader.KindOpenCV {
		return errors.Newf(errors.CodeInvalidConfig, "to_float32 is only supported by %s", imagereader.KindOpenCV)
	}
	return nil
}

// ReaderOptions converts kwargs into the backend-independent reader config
func (k Kwargs) ReaderOptions() imagereader.Config {
	return imagereader.Config{
		ImageDir:  imagereader.Dirs{Paths: k.ImageDir.Paths, List: k.ImageDir.List},
		ColorMode: imagereader.ParseColorMode(k.ColorMode),
		ToFloat32: k.ToFloat32,
	}
}

package imagereader

import (
	"github.com/jmgilman/go/errors"
)

// ColorMode is the channel layout of a decoded image
type ColorMode string

// Known colour modes
const (
	RGB  ColorMode = "RGB"
	BGR  ColorMode = "BGR"
	Gray ColorMode = "GRAY"
)

// ParseColorMode maps a configuration value onto a ColorMode.
// Unknown values are passed through so the backend can reject them.
func ParseColorMode(s string) ColorMode {
	if s == "GRAYSCALE" {
		return Gray
	}
	return ColorMode(s)
}

// Kind identifies a reader backend by its configuration key
type Kind string

// Reader backends
const (
	KindOpenCV  Kind = "fs_opencv"
	KindImaging Kind = "fs_pillow"
)

// Kinds returns every known backend
func Kinds() []Kind {
	return []Kind{KindOpenCV, KindImaging}
}

// CheckColorMode fails with an invalid configuration error unless mode is
// one of allowed.
func CheckColorMode(mode ColorMode, allowed ...ColorMode) error {
	for _, m := range allowed {
		if mode == m {
			return nil
		}
	}
	return errors.Newf(errors.CodeInvalidConfig, "%s not supported", mode)
}

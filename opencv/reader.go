// Package opencv implements the fs_opencv image reader on top of gocv.
package opencv

import (
	"imagereader/imagereader"
	"imagereader/types"

	"github.com/jmgilman/go/errors"
	"gocv.io/x/gocv"
)

// Default placeholder size
const (
	FakeHeight = 512
	FakeWidth  = 512
)

// Reader decodes images into gocv.Mat. GRAY images have one channel; RGB and
// BGR images have three, in the requested order. Callers own the returned
// Mats and must Close them.
type Reader struct {
	*imagereader.Base[gocv.Mat]
	toFloat32 bool
}

// New creates an OpenCV reader. Colour modes other than RGB, BGR and GRAY
// are rejected.
func New(cfg imagereader.Config, opts ...imagereader.Option) (*Reader, error) {
	if err := imagereader.CheckColorMode(cfg.ColorMode, imagereader.RGB, imagereader.BGR, imagereader.Gray); err != nil {
		return nil, err
	}

	return &Reader{
		Base:      imagereader.NewBase[gocv.Mat](imagereader.KindOpenCV, cfg, codec{mode: cfg.ColorMode}, opts...),
		toFloat32: cfg.ToFloat32,
	}, nil
}

// ToFloat32 reports whether returned Mats are converted to 32-bit floats
func (r *Reader) ToFloat32() bool {
	return r.toFloat32
}

// Read decodes the image at path, through the cache when one is configured
func (r *Reader) Read(path string) (gocv.Mat, error) {
	img, err := r.Base.Read(path)
	if err != nil {
		return img, err
	}
	return r.finalize(img), nil
}

// LoadImage resolves filename against the directory selected by
// imageDirIdx and reads it.
func (r *Reader) LoadImage(filename string, imageDirIdx int) (gocv.Mat, error) {
	path, err := r.ResolvePath(filename, imageDirIdx)
	if err != nil {
		return gocv.NewMat(), err
	}
	return r.Read(path)
}

// finalize applies the float conversion. It runs after caching so the cache
// always holds 8-bit images.
func (r *Reader) finalize(img gocv.Mat) gocv.Mat {
	if !r.toFloat32 {
		return img
	}
	out := gocv.NewMat()
	img.ConvertTo(&out, gocv.MatTypeCV32F)
	img.Close()
	return out
}

// FakeImage returns a zero-filled 8-bit placeholder. With no size it is
// 512x512 with one channel for GRAY and three otherwise; a size is
// (height, width) or (height, width, channels).
func (r *Reader) FakeImage(size ...int) (gocv.Mat, error) {
	if len(size) == 0 {
		channels := 3
		if r.ColorMode() == imagereader.Gray {
			channels = 1
		}
		size = []int{FakeHeight, FakeWidth, channels}
	}

	var shape types.Shape
	switch len(size) {
	case 2:
		shape = types.Shape{Height: size[0], Width: size[1], Channels: 1}
	case 3:
		shape = types.Shape{Height: size[0], Width: size[1], Channels: size[2]}
	default:
		return gocv.NewMat(), errors.Newf(errors.CodeInvalidInput, "fake image size must have 2 or 3 dimensions, got %d", len(size))
	}
	if shape.Height <= 0 || shape.Width <= 0 {
		return gocv.NewMat(), errors.Newf(errors.CodeInvalidInput, "invalid fake image size %s", shape)
	}

	matType, err := matTypeFor(shape.Channels)
	if err != nil {
		return gocv.NewMat(), err
	}
	return gocv.Zeros(shape.Height, shape.Width, matType), nil
}

func matTypeFor(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 2:
		return gocv.MatTypeCV8UC2, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	}
	return 0, errors.Newf(errors.CodeInvalidInput, "unsupported channel count %d", channels)
}

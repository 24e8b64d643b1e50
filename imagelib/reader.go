// Package imagelib implements the fs_pillow image reader with the pure Go
// disintegration/imaging library. Images are returned as *image.NRGBA.
package imagelib

import (
	"bytes"
	"image"
	"image/color"

	"imagereader/imagereader"
	"imagereader/types"

	"github.com/disintegration/imaging"
	"github.com/jmgilman/go/errors"
)

// Default placeholder size
const (
	FakeWidth  = 512
	FakeHeight = 512
)

// JPEGQuality is used when storing images in the cache
const JPEGQuality = 95

// Reader decodes images into opaque RGB *image.NRGBA values
type Reader struct {
	*imagereader.Base[*image.NRGBA]
}

// New creates an image-library reader. Only RGB is supported.
func New(cfg imagereader.Config, opts ...imagereader.Option) (*Reader, error) {
	if cfg.ColorMode != imagereader.RGB {
		return nil, errors.Newf(errors.CodeInvalidConfig,
			"only RGB mode supported for %s for now, got %s", imagereader.KindImaging, cfg.ColorMode)
	}
	return &Reader{
		Base: imagereader.NewBase[*image.NRGBA](imagereader.KindImaging, cfg, codec{}, opts...),
	}, nil
}

// FakeImage returns a black placeholder. size is (width, height) with an
// optional trailing channel count that is ignored; the default is 512x512.
func (r *Reader) FakeImage(size ...int) (*image.NRGBA, error) {
	width, height := FakeWidth, FakeHeight
	if len(size) > 0 {
		if len(size) < 2 || len(size) > 3 {
			return nil, errors.Newf(errors.CodeInvalidInput, "fake image size must have 2 or 3 dimensions, got %d", len(size))
		}
		width, height = size[0], size[1]
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Newf(errors.CodeInvalidInput, "invalid fake image size %dx%d", width, height)
	}
	return imaging.New(width, height, color.Black), nil
}

type codec struct{}

func (codec) DecodeFile(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return toRGB(img), nil
}

func (codec) Encode(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (codec) DecodeCached(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toRGB(img), nil
}

func (codec) Shape(img *image.NRGBA) types.Shape {
	b := img.Bounds()
	return types.Shape{Height: b.Dy(), Width: b.Dx(), Channels: 3}
}

// toRGB copies img into an NRGBA with the alpha channel dropped, so every
// pixel is opaque and keeps its colour.
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

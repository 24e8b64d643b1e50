package opencv

import (
	"fmt"

	"imagereader/imagereader"
	"imagereader/types"

	"gocv.io/x/gocv"
)

type codec struct {
	mode imagereader.ColorMode
}

func (c codec) readFlag() gocv.IMReadFlag {
	if c.mode == imagereader.Gray {
		return gocv.IMReadGrayScale
	}
	return gocv.IMReadColor
}

func (c codec) decode(data []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(data, c.readFlag())
	if err != nil {
		return img, err
	}
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), fmt.Errorf("opencv could not decode %d bytes", len(data))
	}
	return img, nil
}

// DecodeFile decodes in OpenCV's native BGR order and reorders for RGB
func (c codec) DecodeFile(data []byte) (gocv.Mat, error) {
	img, err := c.decode(data)
	if err != nil {
		return img, err
	}
	if c.mode != imagereader.RGB {
		return img, nil
	}

	rgb := gocv.NewMat()
	gocv.CvtColor(img, &rgb, gocv.ColorBGRToRGB)
	img.Close()
	return rgb, nil
}

// Encode writes the Mat as JPEG without reordering, so an RGB Mat is stored
// with swapped channels and comes back from DecodeCached as RGB again.
func (c codec) Encode(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func (c codec) DecodeCached(data []byte) (gocv.Mat, error) {
	return c.decode(data)
}

func (c codec) Shape(img gocv.Mat) types.Shape {
	return types.Shape{Height: img.Rows(), Width: img.Cols(), Channels: img.Channels()}
}

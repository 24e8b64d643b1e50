package types

import "fmt"

// Shape is the (height, width, channels) layout of a decoded image
type Shape struct {
	Height   int `json:"height"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// String renders the shape as HxWxC
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}

// ImageInfo describes one read performed through a reader
type ImageInfo struct {
	Path      string `json:"path"`
	CacheKey  string `json:"cache_key"`
	Backend   string `json:"backend"`
	ColorMode string `json:"color_mode"`
	Shape     Shape  `json:"shape"`
	Float32   bool   `json:"float32,omitempty"`
}

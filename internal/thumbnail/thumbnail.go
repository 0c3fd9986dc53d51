package thumbnail

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	defaultWidth  = 400
	defaultHeight = 400
)

// Generate 生成 JPEG 缩略图，自托管回退模式的列表展示用。
// 托管模式不走这里，缩略图由交付时变换按需生成。
func Generate(r io.Reader, width, height int) ([]byte, error) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Thumbnail(src, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Identifier 缩略图在回退存储里的键
func Identifier(publicID string) string {
	return "thumbs/" + publicID + ".jpg"
}

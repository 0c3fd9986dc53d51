package validator

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes 生成一张最小的 PNG
func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// --- 测试 IsImage ---

func TestIsImage_PNG(t *testing.T) {
	reader := bytes.NewReader(pngBytes(t))

	ok, err := IsImage(reader)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsImage_JPEG(t *testing.T) {
	// JPEG 魔数
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)
	ok, err := IsImage(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsImage_NotImage(t *testing.T) {
	ok, err := IsImage(strings.NewReader("just some plain text, definitely not an image"))
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestIsImage_ResetsReader 检测后读取位置回到开头
func TestIsImage_ResetsReader(t *testing.T) {
	data := pngBytes(t)
	reader := bytes.NewReader(data)

	_, err := IsImage(reader)
	require.NoError(t, err)

	rest := make([]byte, len(data))
	n, err := reader.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, rest)
}

// --- 测试 IsVideo ---

func TestIsVideo_MP4(t *testing.T) {
	// mp4 ftyp box
	data := append([]byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2'}, make([]byte, 64)...)
	ok, err := IsVideo(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsVideo_NotVideo(t *testing.T) {
	ok, err := IsVideo(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsVideo(strings.NewReader("plain text"))
	require.NoError(t, err)
	assert.False(t, ok)
}

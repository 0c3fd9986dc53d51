package validator

import (
	"io"
	"net/http"
	"strings"
)

// allowedImageMimeTypes Allowed image types
var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// IsImage Verify if the file content is an allowed image type.
func IsImage(file io.ReadSeeker) (bool, error) {
	mimeType, err := detectMime(file)
	if err != nil {
		return false, err
	}
	return allowedImageMimeTypes[mimeType], nil
}

// IsVideo Verify if the file content looks like a video container.
// http.DetectContentType 只认常见容器（mp4/webm/avi），其余靠扩展交给远端校验
func IsVideo(file io.ReadSeeker) (bool, error) {
	mimeType, err := detectMime(file)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(mimeType, "video/"), nil
}

func detectMime(file io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	_, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buffer), nil
}

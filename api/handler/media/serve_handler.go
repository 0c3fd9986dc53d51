package media

import (
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/storage"
)

// Handler 自托管回退模式的媒体交付处理器
type Handler struct {
	store storage.Provider
}

// NewHandler 创建媒体交付处理器
func NewHandler(store storage.Provider) *Handler {
	return &Handler{store: store}
}

// ServeHandler 按存储键交付文件。托管模式下资源直接走托管 CDN，不经过这里。
// @Summary 交付回退存储中的媒体文件
// @Tags media
// @Produce octet-stream
// @Param identifier path string true "Storage identifier"
// @Success 200 {file} binary
// @Router /media/{identifier} [get]
func (h *Handler) ServeHandler(c *gin.Context) {
	identifier := strings.TrimPrefix(c.Param("identifier"), "/")
	if identifier == "" {
		common.RespondError(c, http.StatusBadRequest, "Media identifier is required")
		return
	}
	if !storage.IsValidIdentifier(identifier) {
		common.RespondError(c, http.StatusBadRequest, "Invalid media identifier")
		return
	}
	if h.store == nil {
		common.RespondError(c, http.StatusNotFound, "Media not found")
		return
	}

	reader, err := h.store.GetWithContext(c.Request.Context(), identifier)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "Media not found")
		return
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	contentType := mime.TypeByExtension(path.Ext(identifier))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		log.Printf("[media] failed to stream %s: %v", identifier, err)
	}
}

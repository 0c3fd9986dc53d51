package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	"github.com/anoixa/media-studio/database/models"
	svcAssets "github.com/anoixa/media-studio/internal/assets"
	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/internal/thumbnail"
	"github.com/anoixa/media-studio/internal/transform"
	"github.com/anoixa/media-studio/internal/uploader"
	"github.com/anoixa/media-studio/utils/validator"
)

// uploadMediaResponse 上传结果响应
type uploadMediaResponse struct {
	AssetID    uint   `json:"asset_id"`
	PublicID   string `json:"public_id"`
	Bytes      int64  `json:"bytes"`
	SelfHosted bool   `json:"self_hosted"`
	URL        string `json:"url,omitempty"`
}

// UploadMediaHandler 服务端中转上传。
// 大小上限在任何远端调用之前检查；托管服务未配置时落到回退存储。
// @Summary 上传媒体文件
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Param title formData string true "Asset title"
// @Param description formData string false "Asset description"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/uploads/media [post]
func (h *Handler) UploadMediaHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = strings.TrimSuffix(fileHeader.Filename, path.Ext(fileHeader.Filename))
	}
	description := c.PostForm("description")

	// 大小上限先于任何网络调用
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		common.RespondError(c, http.StatusBadRequest,
			fmt.Sprintf("File exceeds the upload size limit of %d bytes", h.maxBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	kind, err := detectKind(file)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Unsupported media type")
		return
	}

	if h.media.Configured() {
		h.uploadHosted(c, userID, kind, title, description, fileHeader.Filename, fileHeader.Size, file)
		return
	}
	h.uploadFallback(c, userID, kind, title, description, fileHeader.Filename, fileHeader.Size, file)
}

// detectKind 按文件内容判断媒体类型
func detectKind(file io.ReadSeeker) (models.AssetKind, error) {
	if ok, err := validator.IsImage(file); err == nil && ok {
		return models.AssetKindImage, nil
	}
	if ok, err := validator.IsVideo(file); err == nil && ok {
		return models.AssetKindVideo, nil
	}
	return "", errors.New("unsupported media type")
}

// uploadHosted 托管服务路径，上传流程状态机负责传输与补偿
func (h *Handler) uploadHosted(c *gin.Context, userID uint, kind models.AssetKind, title, description, filename string, size int64, file io.Reader) {
	var created *models.Asset
	persist := func(ctx context.Context, result *mediaapi.UploadResult) error {
		asset, err := h.assetsSvc.Create(ctx, userID, svcAssets.CreateInput{
			Title:         title,
			Description:   description,
			Kind:          kind,
			PublicID:      result.PublicID,
			OriginalSize:  size,
			ProcessedSize: result.Bytes,
			Duration:      result.Duration,
		})
		if err != nil {
			return err
		}
		created = asset
		return nil
	}

	flow := uploader.NewFlow(h.media, persist, h.maxBytes)
	result, err := flow.Run(c.Request.Context(), uploader.Input{
		Kind:     transform.Kind(kind),
		Filename: filename,
		Size:     size,
		Reader:   file,
		Folder:   h.folder,
	})
	if err != nil {
		if errors.Is(err, uploader.ErrTooLarge) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[uploads] hosted upload failed for user %d: %v", userID, err)
		common.RespondError(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	common.RespondSuccess(c, uploadMediaResponse{
		AssetID:    created.ID,
		PublicID:   result.PublicID,
		Bytes:      result.Bytes,
		SelfHosted: false,
		URL:        result.SecureURL,
	})
}

// uploadFallback 自托管回退路径：落盘 + 本地缩略图 + 元数据行，
// 元数据落库失败时回滚已写入的文件
func (h *Handler) uploadFallback(c *gin.Context, userID uint, kind models.AssetKind, title, description, filename string, size int64, file io.ReadSeeker) {
	if h.fallback == nil {
		common.RespondError(c, http.StatusInternalServerError, "No storage backend available")
		return
	}

	ext := strings.ToLower(path.Ext(filename))
	identifier := fmt.Sprintf("%s/%s%s", h.folder, uuid.New().String(), ext)
	ctx := c.Request.Context()

	if err := h.fallback.SaveWithContext(ctx, identifier, file); err != nil {
		log.Printf("[uploads] fallback save failed for user %d: %v", userID, err)
		common.RespondError(c, http.StatusInternalServerError, "Upload failed")
		return
	}

	// 图片顺手生成本地缩略图，失败不影响上传本身
	if kind == models.AssetKindImage {
		if _, err := file.Seek(0, 0); err == nil {
			if thumb, err := thumbnail.Generate(file, 0, 0); err == nil {
				if err := h.fallback.SaveWithContext(ctx, thumbnail.Identifier(identifier), bytes.NewReader(thumb)); err != nil {
					log.Printf("[uploads] thumbnail save failed for %s: %v", identifier, err)
				}
			} else {
				log.Printf("[uploads] thumbnail generation failed for %s: %v", identifier, err)
			}
		}
	}

	asset, err := h.assetsSvc.Create(ctx, userID, svcAssets.CreateInput{
		Title:         title,
		Description:   description,
		Kind:          kind,
		PublicID:      identifier,
		OriginalSize:  size,
		ProcessedSize: size,
		SelfHosted:    true,
	})
	if err != nil {
		// 字节已落盘但元数据失败，回滚文件
		if deleteErr := h.fallback.DeleteWithContext(ctx, identifier); deleteErr != nil {
			log.Printf("[uploads] compensating delete failed for %s: %v", identifier, deleteErr)
		}
		if errors.Is(err, svcAssets.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to save asset")
		return
	}

	common.RespondSuccess(c, uploadMediaResponse{
		AssetID:    asset.ID,
		PublicID:   identifier,
		Bytes:      size,
		SelfHosted: true,
		URL:        h.assetsSvc.DeliveryURL(asset, nil),
	})
}

package assets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	"github.com/anoixa/media-studio/database/models"
	svcAssets "github.com/anoixa/media-studio/internal/assets"
)

type createAssetRequest struct {
	Title         string  `json:"title" binding:"required,max=200"`
	Description   string  `json:"description" binding:"max=500"`
	Kind          string  `json:"kind" binding:"required"`
	PublicID      string  `json:"public_id" binding:"required"`
	OriginalSize  int64   `json:"original_size" binding:"min=0"`
	ProcessedSize int64   `json:"processed_size" binding:"min=0"`
	Duration      float64 `json:"duration" binding:"min=0"`
}

// CreateAssetHandler 上传完成后保存资产元数据
// @Summary 保存资产
// @Tags assets
// @Accept json
// @Produce json
// @Param request body createAssetRequest true "Asset metadata"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/assets [post]
func (h *Handler) CreateAssetHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	asset, err := h.svc.Create(c.Request.Context(), userID, svcAssets.CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Kind:          models.AssetKind(req.Kind),
		PublicID:      req.PublicID,
		OriginalSize:  req.OriginalSize,
		ProcessedSize: req.ProcessedSize,
		Duration:      req.Duration,
	})
	if err != nil {
		if errors.Is(err, svcAssets.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to create asset")
		return
	}

	common.RespondSuccess(c, h.toDTO(asset))
}

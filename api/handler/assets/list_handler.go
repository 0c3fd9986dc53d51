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

// ListAssetsResponse 资产列表响应
type ListAssetsResponse struct {
	Assets []*AssetDTO `json:"assets"`
	Total  int         `json:"total"`
}

// ListAssetsHandler 获取当前用户的资产列表，最新在前
// @Summary 资产列表
// @Tags assets
// @Produce json
// @Param kind query string false "video 或 image，空为全部"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/assets [get]
func (h *Handler) ListAssetsHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)
	kind := models.AssetKind(c.Query("kind"))

	list, err := h.svc.List(c.Request.Context(), userID, kind)
	if err != nil {
		if errors.Is(err, svcAssets.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to list assets")
		return
	}

	dtos := make([]*AssetDTO, len(list))
	for i, asset := range list {
		dtos[i] = h.toDTO(asset)
	}

	common.RespondSuccess(c, ListAssetsResponse{
		Assets: dtos,
		Total:  len(dtos),
	})
}

func (h *Handler) toDTO(asset *models.Asset) *AssetDTO {
	return &AssetDTO{
		ID:            asset.ID,
		Title:         asset.Title,
		Description:   asset.Description,
		Kind:          string(asset.Kind),
		PublicID:      asset.PublicID,
		OriginalSize:  asset.OriginalSize,
		ProcessedSize: asset.ProcessedSize,
		Duration:      asset.Duration,
		SelfHosted:    asset.SelfHosted,
		URL:           h.svc.DeliveryURL(asset, nil),
		ThumbnailURL:  h.svc.ThumbnailURL(asset),
		CreatedAt:     asset.CreatedAt.Unix(),
	}
}

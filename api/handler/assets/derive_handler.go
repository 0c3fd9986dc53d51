package assets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	svcAssets "github.com/anoixa/media-studio/internal/assets"
	"github.com/anoixa/media-studio/internal/transform"
)

type deriveAssetRequest struct {
	Variant     string `json:"variant" binding:"required"`
	AspectRatio string `json:"aspect_ratio"`
	Gravity     string `json:"gravity"`
	Quality     int    `json:"quality" binding:"min=0,max=99"`
	Overwrite   bool   `json:"overwrite"`
	Title       string `json:"title" binding:"max=200"`
}

// deriveAssetResponse 派生结果响应
type deriveAssetResponse struct {
	Asset      *AssetDTO `json:"asset"`
	URL        string    `json:"url"`
	Bytes      int64     `json:"bytes"`
	SavedBytes int64     `json:"saved_bytes"`
}

// DeriveAssetHandler 对已有资产执行 eager 变换并保存副本或覆盖原行
// @Summary 派生资产副本
// @Tags assets
// @Accept json
// @Produce json
// @Param id path int true "Asset ID"
// @Param request body deriveAssetRequest true "Derive options"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/assets/{id}/derive [post]
func (h *Handler) DeriveAssetHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	var req deriveAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Derive(c.Request.Context(), userID, uint(id), svcAssets.DeriveInput{
		Variant:     svcAssets.DeriveVariant(req.Variant),
		AspectRatio: transform.AspectRatio(req.AspectRatio),
		Gravity:     transform.Gravity(req.Gravity),
		Quality:     req.Quality,
		Overwrite:   req.Overwrite,
		Title:       req.Title,
	})
	if err != nil {
		switch {
		case errors.Is(err, svcAssets.ErrNotFound):
			common.RespondError(c, http.StatusNotFound, "Asset not found")
		case errors.Is(err, svcAssets.ErrInvalidInput):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, svcAssets.ErrProviderUnavailable):
			common.RespondError(c, http.StatusInternalServerError, "Media provider is not configured")
		default:
			common.RespondError(c, http.StatusInternalServerError, "Failed to derive asset")
		}
		return
	}

	common.RespondSuccess(c, deriveAssetResponse{
		Asset:      h.toDTO(result.Asset),
		URL:        result.URL,
		Bytes:      result.Bytes,
		SavedBytes: result.SavedBytes,
	})
}

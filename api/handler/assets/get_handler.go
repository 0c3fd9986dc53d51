package assets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	svcAssets "github.com/anoixa/media-studio/internal/assets"
)

// GetAssetHandler 获取单个资产，他人的资产与不存在同样返回 404
// @Summary 资产详情
// @Tags assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/assets/{id} [get]
func (h *Handler) GetAssetHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	asset, err := h.svc.Get(userID, uint(id))
	if err != nil {
		if errors.Is(err, svcAssets.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "Asset not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to get asset")
		return
	}

	common.RespondSuccess(c, h.toDTO(asset))
}

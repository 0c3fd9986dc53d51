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

// DeleteAssetHandler 删除资产。远端对象清理尽力而为，元数据行必删。
// @Summary 删除资产
// @Tags assets
// @Produce json
// @Param id path int true "Asset ID"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/assets/{id} [delete]
func (h *Handler) DeleteAssetHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, uint(id)); err != nil {
		if errors.Is(err, svcAssets.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "Asset not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to delete asset")
		return
	}

	common.RespondSuccessMessage(c, "Asset deleted", nil)
}

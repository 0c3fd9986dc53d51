package favorites

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	svcFavorites "github.com/anoixa/media-studio/internal/favorites"
)

// DeleteFavoriteHandler 按 ID 取消收藏
// @Summary 删除收藏
// @Tags favorites
// @Produce json
// @Param id path int true "Favorite ID"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/favorites/{id} [delete]
func (h *Handler) DeleteFavoriteHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid favorite ID")
		return
	}

	if err := h.svc.Remove(userID, uint(id)); err != nil {
		if errors.Is(err, svcFavorites.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "Favorite not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to delete favorite")
		return
	}

	common.RespondSuccessMessage(c, "Favorite removed", nil)
}

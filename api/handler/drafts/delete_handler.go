package drafts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	svcDrafts "github.com/anoixa/media-studio/internal/drafts"
)

// DeleteDraftHandler 删除草稿，被引用的资产不受影响
// @Summary 删除草稿
// @Tags drafts
// @Produce json
// @Param id path int true "Draft ID"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/drafts/{id} [delete]
func (h *Handler) DeleteDraftHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid draft ID")
		return
	}

	if err := h.svc.Delete(userID, uint(id)); err != nil {
		if errors.Is(err, svcDrafts.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "Draft not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to delete draft")
		return
	}

	common.RespondSuccessMessage(c, "Draft deleted", nil)
}

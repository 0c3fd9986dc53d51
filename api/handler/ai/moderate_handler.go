package ai

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	svcAI "github.com/anoixa/media-studio/internal/ai"
)

// ModerateHandler 内容安全审核
// @Summary 内容审核
// @Tags ai
// @Accept json
// @Produce json
// @Param request body publicIDRequest true "Asset reference"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/ai/moderate [post]
func (h *Handler) ModerateHandler(c *gin.Context) {
	var req publicIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Moderate(c.Request.Context(), req.PublicID)
	if err != nil {
		if errors.Is(err, svcAI.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to check content")
		return
	}

	common.RespondSuccess(c, result)
}

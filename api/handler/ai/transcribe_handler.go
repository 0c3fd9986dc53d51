package ai

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	svcAI "github.com/anoixa/media-studio/internal/ai"
)

// TranscribeHandler 视频语音转文字
// @Summary 视频转写
// @Tags ai
// @Accept json
// @Produce json
// @Param request body publicIDRequest true "Asset reference"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/ai/transcribe [post]
func (h *Handler) TranscribeHandler(c *gin.Context) {
	var req publicIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Transcribe(c.Request.Context(), req.PublicID)
	if err != nil {
		if errors.Is(err, svcAI.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to transcribe video")
		return
	}

	common.RespondSuccess(c, result)
}

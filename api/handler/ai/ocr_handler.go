package ai

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	svcAI "github.com/anoixa/media-studio/internal/ai"
)

// OCRHandler 从图片提取文字
// @Summary 文本提取
// @Tags ai
// @Accept json
// @Produce json
// @Param request body publicIDRequest true "Asset reference"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/ai/ocr [post]
func (h *Handler) OCRHandler(c *gin.Context) {
	var req publicIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.OCR(c.Request.Context(), req.PublicID)
	if err != nil {
		if errors.Is(err, svcAI.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to extract text")
		return
	}

	common.RespondSuccess(c, result)
}

package ai

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	svcAI "github.com/anoixa/media-studio/internal/ai"
)

type visionRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
	Question string `json:"question" binding:"required"`
}

type visionResponse struct {
	Response string `json:"response"`
}

// VisionHandler 对图片做自由问答，模型未配置时返回演示回答
// @Summary 图片视觉问答
// @Tags ai
// @Accept json
// @Produce json
// @Param request body visionRequest true "Image URL and question"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/ai/vision [post]
func (h *Handler) VisionHandler(c *gin.Context) {
	var req visionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	answer, err := h.svc.Vision(c.Request.Context(), req.ImageURL, req.Question)
	if err != nil {
		if errors.Is(err, svcAI.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to analyze image")
		return
	}

	common.RespondSuccess(c, visionResponse{Response: answer})
}

package ai

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	svcAI "github.com/anoixa/media-studio/internal/ai"
)

type publicIDRequest struct {
	PublicID string `json:"publicId" binding:"required"`
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// TagsHandler 自动打标，插件缺失时降级为演示标签
// @Summary 自动打标
// @Tags ai
// @Accept json
// @Produce json
// @Param request body publicIDRequest true "Asset reference"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/ai/tags [post]
func (h *Handler) TagsHandler(c *gin.Context) {
	var req publicIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tags, err := h.svc.Tags(c.Request.Context(), req.PublicID)
	if err != nil {
		if errors.Is(err, svcAI.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to tag asset")
		return
	}

	common.RespondSuccess(c, tagsResponse{Tags: tags})
}

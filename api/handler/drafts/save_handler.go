package drafts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	svcDrafts "github.com/anoixa/media-studio/internal/drafts"
)

type saveDraftRequest struct {
	ID                uint   `json:"id"`
	AssetID           uint   `json:"asset_id" binding:"required"`
	Caption           string `json:"caption" binding:"max=2000"`
	Format            string `json:"format"`
	ThumbnailPublicID string `json:"thumbnail_public_id"`
}

// SaveDraftHandler 新建或更新草稿，id 为 0 时新建
// @Summary 保存草稿
// @Tags drafts
// @Accept json
// @Produce json
// @Param request body saveDraftRequest true "Draft payload"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/drafts [post]
func (h *Handler) SaveDraftHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := h.svc.Save(userID, svcDrafts.SaveInput{
		ID:                req.ID,
		AssetID:           req.AssetID,
		Caption:           req.Caption,
		Format:            req.Format,
		ThumbnailPublicID: req.ThumbnailPublicID,
	})
	if err != nil {
		switch {
		case errors.Is(err, svcDrafts.ErrNotFound):
			common.RespondError(c, http.StatusNotFound, "Draft not found")
		case errors.Is(err, svcDrafts.ErrInvalidInput):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		default:
			common.RespondError(c, http.StatusInternalServerError, "Failed to save draft")
		}
		return
	}

	common.RespondSuccess(c, toDTO(draft))
}

package drafts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	"github.com/anoixa/media-studio/database/models"
)

// ListDraftsResponse 草稿列表响应
type ListDraftsResponse struct {
	Drafts []*DraftDTO `json:"drafts"`
	Total  int         `json:"total"`
}

// ListDraftsHandler 获取当前用户的草稿列表，最近更新在前
// @Summary 草稿列表
// @Tags drafts
// @Produce json
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/drafts [get]
func (h *Handler) ListDraftsHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	list, err := h.svc.List(userID)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list drafts")
		return
	}

	dtos := make([]*DraftDTO, len(list))
	for i, draft := range list {
		dtos[i] = toDTO(draft)
	}

	common.RespondSuccess(c, ListDraftsResponse{
		Drafts: dtos,
		Total:  len(dtos),
	})
}

func toDTO(draft *models.Draft) *DraftDTO {
	dto := &DraftDTO{
		ID:                draft.ID,
		AssetID:           draft.AssetID,
		Caption:           draft.Caption,
		Format:            draft.Format,
		ThumbnailPublicID: draft.ThumbnailPublicID,
		UpdatedAt:         draft.UpdatedAt.Unix(),
	}
	if draft.Asset.ID != 0 {
		dto.AssetTitle = draft.Asset.Title
		dto.AssetPublicID = draft.Asset.PublicID
		dto.AssetKind = string(draft.Asset.Kind)
	}
	return dto
}

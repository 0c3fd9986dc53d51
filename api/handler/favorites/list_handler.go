package favorites

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
)

// ListFavoritesResponse 收藏列表响应
type ListFavoritesResponse struct {
	Favorites []*FavoriteDTO `json:"favorites"`
	Total     int            `json:"total"`
}

// ListFavoritesHandler 获取当前用户的收藏列表，最新在前
// @Summary 收藏列表
// @Tags favorites
// @Produce json
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/favorites [get]
func (h *Handler) ListFavoritesHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	list, err := h.svc.List(userID)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to list favorites")
		return
	}

	dtos := make([]*FavoriteDTO, len(list))
	for i, favorite := range list {
		dtos[i] = &FavoriteDTO{
			ID:        favorite.ID,
			PublicID:  favorite.PublicID,
			Kind:      string(favorite.Kind),
			Title:     favorite.Title,
			CreatedAt: favorite.CreatedAt.Unix(),
		}
	}

	common.RespondSuccess(c, ListFavoritesResponse{
		Favorites: dtos,
		Total:     len(dtos),
	})
}

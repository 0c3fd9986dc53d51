package favorites

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/api/middleware"
	"github.com/anoixa/media-studio/database/models"
	svcFavorites "github.com/anoixa/media-studio/internal/favorites"
)

type createFavoriteRequest struct {
	PublicID string `json:"public_id" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Title    string `json:"title" binding:"max=200"`
}

// CreateFavoriteHandler 收藏一个资产，重复收藏幂等
// @Summary 创建收藏
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body createFavoriteRequest true "Favorite payload"
// @Success 200 {object} common.Response
// @Security BearerAuth
// @Router /api/v1/favorites [post]
func (h *Handler) CreateFavoriteHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req createFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	favorite, err := h.svc.Add(userID, svcFavorites.AddInput{
		PublicID: req.PublicID,
		Kind:     models.AssetKind(req.Kind),
		Title:    req.Title,
	})
	if err != nil {
		if errors.Is(err, svcFavorites.ErrInvalidInput) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to save favorite")
		return
	}

	common.RespondSuccess(c, &FavoriteDTO{
		ID:        favorite.ID,
		PublicID:  favorite.PublicID,
		Kind:      string(favorite.Kind),
		Title:     favorite.Title,
		CreatedAt: favorite.CreatedAt.Unix(),
	})
}

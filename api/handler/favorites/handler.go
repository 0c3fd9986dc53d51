package favorites

import (
	svcFavorites "github.com/anoixa/media-studio/internal/favorites"
)

// Handler 收藏处理器
type Handler struct {
	svc *svcFavorites.Service
}

// NewHandler 创建收藏处理器
func NewHandler(svc *svcFavorites.Service) *Handler {
	return &Handler{svc: svc}
}

// FavoriteDTO 收藏响应数据
type FavoriteDTO struct {
	ID        uint   `json:"id"`
	PublicID  string `json:"public_id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
}

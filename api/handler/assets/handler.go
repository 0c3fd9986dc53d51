package assets

import (
	svcAssets "github.com/anoixa/media-studio/internal/assets"
)

// Handler 资产处理器
type Handler struct {
	svc *svcAssets.Service
}

// NewHandler 创建资产处理器
func NewHandler(svc *svcAssets.Service) *Handler {
	return &Handler{svc: svc}
}

// AssetDTO 资产响应数据
type AssetDTO struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Kind          string  `json:"kind"`
	PublicID      string  `json:"public_id"`
	OriginalSize  int64   `json:"original_size"`
	ProcessedSize int64   `json:"processed_size"`
	Duration      float64 `json:"duration"`
	SelfHosted    bool    `json:"self_hosted"`
	URL           string  `json:"url"`
	ThumbnailURL  string  `json:"thumbnail_url"`
	CreatedAt     int64   `json:"created_at"`
}

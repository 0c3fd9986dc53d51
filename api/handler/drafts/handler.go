package drafts

import (
	svcDrafts "github.com/anoixa/media-studio/internal/drafts"
)

// Handler 草稿处理器
type Handler struct {
	svc *svcDrafts.Service
}

// NewHandler 创建草稿处理器
func NewHandler(svc *svcDrafts.Service) *Handler {
	return &Handler{svc: svc}
}

// DraftDTO 草稿响应数据
type DraftDTO struct {
	ID                uint   `json:"id"`
	AssetID           uint   `json:"asset_id"`
	AssetTitle        string `json:"asset_title,omitempty"`
	AssetPublicID     string `json:"asset_public_id,omitempty"`
	AssetKind         string `json:"asset_kind,omitempty"`
	Caption           string `json:"caption"`
	Format            string `json:"format"`
	ThumbnailPublicID string `json:"thumbnail_public_id,omitempty"`
	UpdatedAt         int64  `json:"updated_at"`
}

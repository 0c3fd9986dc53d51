package ai

import (
	svcAI "github.com/anoixa/media-studio/internal/ai"
)

// Handler 媒体分析处理器
type Handler struct {
	svc *svcAI.Service
}

// NewHandler 创建分析处理器
func NewHandler(svc *svcAI.Service) *Handler {
	return &Handler{svc: svc}
}

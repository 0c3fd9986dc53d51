package uploads

import (
	svcAssets "github.com/anoixa/media-studio/internal/assets"
	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/storage"
)

// Handler 上传处理器。托管服务配置了就直传托管服务，
// 否则落到自托管回退存储。
type Handler struct {
	assetsSvc *svcAssets.Service
	media     *mediaapi.Client
	fallback  storage.Provider
	maxBytes  int64
	folder    string
}

// NewHandler 创建上传处理器
func NewHandler(assetsSvc *svcAssets.Service, media *mediaapi.Client, fallback storage.Provider, maxBytes int64, folder string) *Handler {
	return &Handler{
		assetsSvc: assetsSvc,
		media:     media,
		fallback:  fallback,
		maxBytes:  maxBytes,
		folder:    folder,
	}
}

package assets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/anoixa/media-studio/cache"
	"github.com/anoixa/media-studio/database/models"
	assetsrepo "github.com/anoixa/media-studio/database/repo/assets"
	favoritesrepo "github.com/anoixa/media-studio/database/repo/favorites"
	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/internal/transform"
	"github.com/anoixa/media-studio/storage"
	"github.com/anoixa/media-studio/utils"
)

const maxTitleLength = 200

var (
	// ErrNotFound 资产不存在或不属于当前用户，两种情况不区分
	ErrNotFound = errors.New("asset not found")
	// ErrInvalidInput 请求字段校验失败
	ErrInvalidInput = errors.New("invalid input")
	// ErrProviderUnavailable 托管媒体服务未配置
	ErrProviderUnavailable = errors.New("media provider is not configured")
)

// Service 资产服务，持久化网关的核心
type Service struct {
	repo          *assetsrepo.Repository
	favoritesRepo *favoritesrepo.Repository
	media         *mediaapi.Client
	fallback      storage.Provider
	cacheProvider cache.Provider
	listTTL       time.Duration
	baseURL       string
}

// NewService 创建资产服务
func NewService(
	repo *assetsrepo.Repository,
	favoritesRepo *favoritesrepo.Repository,
	media *mediaapi.Client,
	fallback storage.Provider,
	cacheProvider cache.Provider,
	listTTL time.Duration,
	baseURL string,
) *Service {
	return &Service{
		repo:          repo,
		favoritesRepo: favoritesRepo,
		media:         media,
		fallback:      fallback,
		cacheProvider: cacheProvider,
		listTTL:       listTTL,
		baseURL:       baseURL,
	}
}

// CreateInput 保存资产的请求载荷
type CreateInput struct {
	Title         string
	Description   string
	Kind          models.AssetKind
	PublicID      string
	OriginalSize  int64
	ProcessedSize int64
	Duration      float64
	SelfHosted    bool
}

// Create 保存一条资产记录。像素数据此时已经在远端，这里只落元数据行。
func (s *Service) Create(ctx context.Context, userID uint, input CreateInput) (*models.Asset, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLength)
	}
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be video or image", ErrInvalidInput)
	}
	if input.PublicID == "" {
		return nil, fmt.Errorf("%w: public_id is required", ErrInvalidInput)
	}
	if input.OriginalSize < 0 || input.ProcessedSize < 0 || input.Duration < 0 {
		return nil, fmt.Errorf("%w: sizes and duration must be non-negative", ErrInvalidInput)
	}

	asset := &models.Asset{
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		Kind:          input.Kind,
		PublicID:      input.PublicID,
		OriginalSize:  input.OriginalSize,
		ProcessedSize: input.ProcessedSize,
		Duration:      input.Duration,
		SelfHosted:    input.SelfHosted,
		UserID:        userID,
	}
	if err := s.repo.Create(asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	s.invalidateListCache(ctx, userID)
	return asset, nil
}

// List 用户资产列表，最新在前。kind 为空表示全部类型。
func (s *Service) List(ctx context.Context, userID uint, kind models.AssetKind) ([]*models.Asset, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be video or image", ErrInvalidInput)
	}

	key := cache.AssetListKey(userID, string(kind))
	if s.cacheProvider != nil {
		var cached []*models.Asset
		if err := s.cacheProvider.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !cache.IsCacheMiss(err) {
			log.Printf("[assets] cache get failed for %s: %v", key, err)
		}
	}

	list, err := s.repo.ListByUser(userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	if s.cacheProvider != nil {
		if err := s.cacheProvider.Set(ctx, key, list, s.listTTL); err != nil {
			log.Printf("[assets] cache set failed for %s: %v", key, err)
		}
	}
	return list, nil
}

// Get 按 ID 取当前用户的资产，他人的记录与不存在一视同仁
func (s *Service) Get(userID, id uint) (*models.Asset, error) {
	asset, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// Delete 删除资产。远端对象的清理是尽力而为：
// 远端删除失败只记日志，本地行照删，避免远端故障把删除操作卡死。
func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	asset, err := s.Get(userID, id)
	if err != nil {
		return err
	}

	// 同一远端对象可能被多条资产行引用（覆盖保存 vs 另存副本），
	// 仅当这是最后一条引用时才动远端
	remaining, err := s.repo.CountByPublicIDAndUser(asset.PublicID, userID, asset.ID)
	if err != nil {
		return fmt.Errorf("failed to count references: %w", err)
	}
	if remaining == 0 {
		s.destroyRemote(asset)
	}

	if err := s.repo.Delete(asset); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	// 资产没了，指向它的收藏也清掉
	if err := s.favoritesRepo.DeleteByPublicIDAndUser(asset.PublicID, userID); err != nil {
		log.Printf("[assets] failed to clear favorites for %s: %v", asset.PublicID, err)
	}

	s.invalidateListCache(ctx, userID)
	return nil
}

// destroyRemote 尽力删除远端对象，失败只记日志
func (s *Service) destroyRemote(asset *models.Asset) {
	publicID := asset.PublicID
	selfHosted := asset.SelfHosted
	kind := transform.Kind(asset.Kind)

	utils.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), destroyTimeout)
		defer cancel()

		if selfHosted {
			if s.fallback == nil {
				return
			}
			if err := s.fallback.DeleteWithContext(ctx, publicID); err != nil {
				log.Printf("[assets] fallback storage delete failed for %s: %v", publicID, err)
			}
			return
		}

		if !s.media.Configured() {
			return
		}
		if err := s.media.Destroy(ctx, kind, publicID); err != nil {
			log.Printf("[assets] remote destroy failed for %s: %v", publicID, err)
		}
	})
}

// DeliveryURL 资产的可播放/可展示 URL
func (s *Service) DeliveryURL(asset *models.Asset, req *transform.Request) string {
	if asset.SelfHosted {
		return fmt.Sprintf("%s/media/%s", s.baseURL, asset.PublicID)
	}
	return transform.DeliveryURL(s.media.CloudName(), transform.Kind(asset.Kind), asset.PublicID, req)
}

// ThumbnailURL 列表缩略图 URL，视频取首帧
func (s *Service) ThumbnailURL(asset *models.Asset) string {
	if asset.SelfHosted {
		return fmt.Sprintf("%s/media/%s", s.baseURL, asset.PublicID)
	}
	if asset.Kind == models.AssetKindVideo {
		return transform.VideoThumbnailURL(s.media.CloudName(), asset.PublicID, 0, 0)
	}
	return transform.ImageURL(s.media.CloudName(), asset.PublicID, 0, 0)
}

func (s *Service) invalidateListCache(ctx context.Context, userID uint) {
	if s.cacheProvider == nil {
		return
	}
	for _, kind := range []string{"", string(models.AssetKindVideo), string(models.AssetKindImage)} {
		key := cache.AssetListKey(userID, kind)
		if err := s.cacheProvider.Delete(ctx, key); err != nil {
			log.Printf("[assets] cache delete failed for %s: %v", key, err)
		}
	}
}

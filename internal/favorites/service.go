package favorites

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
	assetsrepo "github.com/anoixa/media-studio/database/repo/assets"
	favoritesrepo "github.com/anoixa/media-studio/database/repo/favorites"
)

var (
	// ErrNotFound 收藏不存在或不属于当前用户
	ErrNotFound = errors.New("favorite not found")
	// ErrInvalidInput 请求字段校验失败
	ErrInvalidInput = errors.New("invalid input")
)

// Service 收藏服务。收藏是服务端持有的书签，
// 创建时校验被引用的资产真实存在，避免悬空收藏。
type Service struct {
	repo       *favoritesrepo.Repository
	assetsRepo *assetsrepo.Repository
}

// NewService 创建收藏服务
func NewService(repo *favoritesrepo.Repository, assetsRepo *assetsrepo.Repository) *Service {
	return &Service{repo: repo, assetsRepo: assetsRepo}
}

// AddInput 创建收藏的请求载荷
type AddInput struct {
	PublicID string
	Kind     models.AssetKind
	Title    string
}

// Add 创建收藏，对同一对象重复收藏幂等
func (s *Service) Add(userID uint, input AddInput) (*models.Favorite, error) {
	publicID := strings.TrimSpace(input.PublicID)
	if publicID == "" {
		return nil, fmt.Errorf("%w: public_id is required", ErrInvalidInput)
	}
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be video or image", ErrInvalidInput)
	}

	// 只能收藏自己拥有的资产
	asset, err := s.assetsRepo.GetByPublicIDAndUser(publicID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: referenced asset not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to check asset: %w", err)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = asset.Title
	}

	favorite := &models.Favorite{
		UserID:   userID,
		PublicID: publicID,
		Kind:     input.Kind,
		Title:    title,
	}
	if err := s.repo.Upsert(favorite); err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return favorite, nil
}

// List 用户收藏列表，最新在前
func (s *Service) List(userID uint) ([]*models.Favorite, error) {
	list, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return list, nil
}

// Remove 按 ID 删除收藏
func (s *Service) Remove(userID, id uint) error {
	favorite, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get favorite: %w", err)
	}
	if err := s.repo.Delete(favorite); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// RemoveByPublicID 按远端存储键删除收藏，取消收藏入口用
func (s *Service) RemoveByPublicID(userID uint, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return fmt.Errorf("%w: public_id is required", ErrInvalidInput)
	}
	return s.repo.DeleteByPublicIDAndUser(publicID, userID)
}

package drafts

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
	assetsrepo "github.com/anoixa/media-studio/database/repo/assets"
	draftsrepo "github.com/anoixa/media-studio/database/repo/drafts"
)

const maxCaptionLength = 2000

var (
	// ErrNotFound 草稿不存在或不属于当前用户
	ErrNotFound = errors.New("draft not found")
	// ErrInvalidInput 请求字段校验失败
	ErrInvalidInput = errors.New("invalid input")
)

// 固定的导出格式枚举
var allowedFormats = map[string]bool{
	"story":     true, // 9:16 竖版
	"post":      true, // 1:1 方形
	"landscape": true, // 16:9 横版
	"original":  true,
}

// Service 社交分享草稿服务
type Service struct {
	repo       *draftsrepo.Repository
	assetsRepo *assetsrepo.Repository
}

// NewService 创建草稿服务
func NewService(repo *draftsrepo.Repository, assetsRepo *assetsrepo.Repository) *Service {
	return &Service{repo: repo, assetsRepo: assetsRepo}
}

// SaveInput 保存草稿的请求载荷。ID 为 0 时新建，否则更新已有草稿。
type SaveInput struct {
	ID                uint
	AssetID           uint
	Caption           string
	Format            string
	ThumbnailPublicID string
}

// Save 新建或更新草稿。被引用的资产必须属于当前用户。
func (s *Service) Save(userID uint, input SaveInput) (*models.Draft, error) {
	caption := strings.TrimSpace(input.Caption)
	if len(caption) > maxCaptionLength {
		return nil, fmt.Errorf("%w: caption must be at most %d characters", ErrInvalidInput, maxCaptionLength)
	}
	format := input.Format
	if format == "" {
		format = "original"
	}
	if !allowedFormats[format] {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, format)
	}
	if input.AssetID == 0 {
		return nil, fmt.Errorf("%w: asset_id is required", ErrInvalidInput)
	}

	// 资产归属校验，他人的资产与不存在一视同仁
	if _, err := s.assetsRepo.GetByIDAndUser(input.AssetID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: referenced asset not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to check asset: %w", err)
	}

	if input.ID == 0 {
		draft := &models.Draft{
			UserID:            userID,
			AssetID:           input.AssetID,
			Caption:           caption,
			Format:            format,
			ThumbnailPublicID: input.ThumbnailPublicID,
		}
		if err := s.repo.Create(draft); err != nil {
			return nil, fmt.Errorf("failed to create draft: %w", err)
		}
		return draft, nil
	}

	draft, err := s.get(userID, input.ID)
	if err != nil {
		return nil, err
	}
	draft.AssetID = input.AssetID
	draft.Caption = caption
	draft.Format = format
	draft.ThumbnailPublicID = input.ThumbnailPublicID
	if err := s.repo.Update(draft); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return draft, nil
}

// List 用户草稿列表，最近更新在前
func (s *Service) List(userID uint) ([]*models.Draft, error) {
	list, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return list, nil
}

// Get 按 ID 取当前用户的草稿
func (s *Service) Get(userID, id uint) (*models.Draft, error) {
	return s.get(userID, id)
}

// Delete 删除草稿，被引用的资产不受影响
func (s *Service) Delete(userID, id uint) error {
	draft, err := s.get(userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(draft); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (s *Service) get(userID, id uint) (*models.Draft, error) {
	draft, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

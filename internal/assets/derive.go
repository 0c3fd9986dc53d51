package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/anoixa/media-studio/database/models"
	"github.com/anoixa/media-studio/internal/transform"
)

const (
	destroyTimeout = 30 * time.Second

	// 社交短片预览固定 10 秒，比原片长时取原片时长
	teaserDuration = 10
)

// DeriveVariant 派生副本的类型
type DeriveVariant string

const (
	// VariantSocial 按社交平台宽高比智能裁剪
	VariantSocial DeriveVariant = "social"
	// VariantTeaser 视频精彩片段短预览
	VariantTeaser DeriveVariant = "teaser"
	// VariantQuality 自动压缩转码
	VariantQuality DeriveVariant = "quality"
)

// DeriveInput 派生请求
type DeriveInput struct {
	Variant     DeriveVariant
	AspectRatio transform.AspectRatio
	Gravity     transform.Gravity
	Quality     int // 1-99 显式质量，0 表示 q_auto

	// Overwrite 为 true 时覆盖原资产行的尺寸，否则另存一条新资产行
	Overwrite bool
	Title     string // 另存副本时的标题，空则自动生成
}

// DeriveResult 派生结果
type DeriveResult struct {
	Asset      *models.Asset `json:"asset"`
	URL        string        `json:"url"`
	Bytes      int64         `json:"bytes"`
	SavedBytes int64         `json:"saved_bytes"`
}

// Derive 让托管服务对已有资产执行 eager 变换并持久化结果。
// 远端对象共享同一 public_id，派生副本只是指向不同变换的新元数据行。
func (s *Service) Derive(ctx context.Context, userID, id uint, input DeriveInput) (*DeriveResult, error) {
	asset, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if asset.SelfHosted {
		return nil, fmt.Errorf("%w: derive requires the hosted media provider", ErrProviderUnavailable)
	}
	if !s.media.Configured() {
		return nil, ErrProviderUnavailable
	}

	req, err := buildDeriveRequest(asset, input)
	if err != nil {
		return nil, err
	}

	transformation := transform.Build(req)
	result, err := s.media.Explicit(ctx, transform.Kind(asset.Kind), asset.PublicID, transformation)
	if err != nil {
		return nil, fmt.Errorf("derive transformation failed: %w", err)
	}

	derivedBytes := result.DerivedBytes()
	saved := asset.ProcessedSize - derivedBytes
	if asset.ProcessedSize == 0 {
		saved = asset.OriginalSize - derivedBytes
	}
	if saved < 0 {
		saved = 0
	}

	target := asset
	if input.Overwrite {
		if err := s.repo.UpdateSizes(asset.ID, derivedBytes, asset.Duration); err != nil {
			return nil, fmt.Errorf("failed to update asset sizes: %w", err)
		}
		asset.ProcessedSize = derivedBytes
	} else {
		title := input.Title
		if title == "" {
			title = asset.Title + " (" + string(input.Variant) + ")"
		}
		copyAsset, err := s.Create(ctx, userID, CreateInput{
			Title:         title,
			Description:   asset.Description,
			Kind:          asset.Kind,
			PublicID:      asset.PublicID,
			OriginalSize:  asset.OriginalSize,
			ProcessedSize: derivedBytes,
			Duration:      asset.Duration,
		})
		if err != nil {
			return nil, err
		}
		target = copyAsset
	}

	s.invalidateListCache(ctx, userID)

	return &DeriveResult{
		Asset:      target,
		URL:        result.DerivedURL(),
		Bytes:      derivedBytes,
		SavedBytes: saved,
	}, nil
}

// buildDeriveRequest 把派生请求翻译成变换描述
func buildDeriveRequest(asset *models.Asset, input DeriveInput) (*transform.Request, error) {
	switch input.Variant {
	case VariantSocial:
		if !input.AspectRatio.Valid() {
			return nil, fmt.Errorf("%w: aspect_ratio is required for social variant", ErrInvalidInput)
		}
		return &transform.Request{
			Mode:        transform.ModeSmartCrop,
			AspectRatio: input.AspectRatio,
			Gravity:     input.Gravity,
		}, nil
	case VariantTeaser:
		if asset.Kind != models.AssetKindVideo {
			return nil, fmt.Errorf("%w: teaser variant requires a video asset", ErrInvalidInput)
		}
		duration := teaserDuration
		if asset.Duration > 0 && asset.Duration < float64(duration) {
			duration = int(asset.Duration)
		}
		return &transform.Request{
			Mode:            transform.ModePreview,
			PreviewDuration: duration,
		}, nil
	case VariantQuality:
		if input.Quality < 0 || input.Quality > 99 {
			return nil, fmt.Errorf("%w: quality must be between 1 and 99", ErrInvalidInput)
		}
		return &transform.Request{
			Mode:    transform.ModeQuality,
			Quality: input.Quality,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown derive variant %q", ErrInvalidInput, input.Variant)
	}
}

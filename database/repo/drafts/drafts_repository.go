package drafts

import (
	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
)

// Repository 草稿仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的草稿仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建草稿
func (r *Repository) Create(draft *models.Draft) error {
	return r.db.Create(draft).Error
}

// ListByUser 用户草稿列表，按更新时间倒序，带出关联资产
func (r *Repository) ListByUser(userID uint) ([]*models.Draft, error) {
	var drafts []*models.Draft
	err := r.db.Preload("Asset").
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&drafts).Error
	return drafts, err
}

// GetByIDAndUser 按 ID + 用户查草稿；归属失败与不存在同样返回 ErrRecordNotFound
func (r *Repository) GetByIDAndUser(id, userID uint) (*models.Draft, error) {
	var draft models.Draft
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&draft).Error
	return &draft, err
}

// Update 原地更新草稿内容
func (r *Repository) Update(draft *models.Draft) error {
	return r.db.Model(&models.Draft{}).
		Where("id = ? AND user_id = ?", draft.ID, draft.UserID).
		Updates(map[string]any{
			"asset_id":            draft.AssetID,
			"caption":             draft.Caption,
			"format":              draft.Format,
			"thumbnail_public_id": draft.ThumbnailPublicID,
		}).Error
}

// Delete 删除草稿
func (r *Repository) Delete(draft *models.Draft) error {
	return r.db.Delete(draft).Error
}

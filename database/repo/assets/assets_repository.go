package assets

import (
	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
)

// Repository 资产仓库
// 所有读写都带 user_id 过滤，归属检查不依赖数据库约束
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的资产仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 保存资产记录
func (r *Repository) Create(asset *models.Asset) error {
	return r.db.Create(asset).Error
}

// ListByUser 用户资产列表，最新在前；kind 为空时返回全部类型
func (r *Repository) ListByUser(userID uint, kind models.AssetKind) ([]*models.Asset, error) {
	var assets []*models.Asset
	db := r.db.Where("user_id = ?", userID)
	if kind != "" {
		db = db.Where("kind = ?", kind)
	}
	err := db.Order("created_at desc").Find(&assets).Error
	return assets, err
}

// GetByIDAndUser 按 ID + 用户查资产；他人记录与不存在同样返回 ErrRecordNotFound
func (r *Repository) GetByIDAndUser(id, userID uint) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&asset).Error
	return &asset, err
}

// GetByPublicIDAndUser 按远端存储键 + 用户查资产
func (r *Repository) GetByPublicIDAndUser(publicID string, userID uint) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.Where("public_id = ? AND user_id = ?", publicID, userID).First(&asset).Error
	return &asset, err
}

// GetByPublicID 按远端存储键查资产，回退交付路径用，不限归属
func (r *Repository) GetByPublicID(publicID string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.Where("public_id = ?", publicID).First(&asset).Error
	return &asset, err
}

// Delete 删除资产记录
func (r *Repository) Delete(asset *models.Asset) error {
	return r.db.Delete(asset).Error
}

// UpdateSizes 保存/覆盖动作更新尺寸与时长，PublicID 不可变所以永远不更新
func (r *Repository) UpdateSizes(id uint, processedSize int64, duration float64) error {
	return r.db.Model(&models.Asset{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processed_size": processedSize,
			"duration":       duration,
		}).Error
}

// CountByPublicIDAndUser 某远端对象是否还有当前用户的其它资产行引用
func (r *Repository) CountByPublicIDAndUser(publicID string, userID uint, excludeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Asset{}).
		Where("public_id = ? AND user_id = ? AND id <> ?", publicID, userID, excludeID).
		Count(&count).Error
	return count, err
}

package favorites

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anoixa/media-studio/database/models"
)

// Repository 收藏仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的收藏仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert 创建收藏，重复收藏同一对象时保持幂等
func (r *Repository) Upsert(favorite *models.Favorite) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "public_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "kind"}),
	}).Create(favorite).Error
}

// ListByUser 用户收藏列表，最新在前
func (r *Repository) ListByUser(userID uint) ([]*models.Favorite, error) {
	var favorites []*models.Favorite
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&favorites).Error
	return favorites, err
}

// GetByIDAndUser 按 ID + 用户查收藏
func (r *Repository) GetByIDAndUser(id, userID uint) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&favorite).Error
	return &favorite, err
}

// Delete 删除收藏
func (r *Repository) Delete(favorite *models.Favorite) error {
	return r.db.Delete(favorite).Error
}

// DeleteByPublicIDAndUser 资产删除时同步清掉对应收藏
func (r *Repository) DeleteByPublicIDAndUser(publicID string, userID uint) error {
	return r.db.Where("public_id = ? AND user_id = ?", publicID, userID).Delete(&models.Favorite{}).Error
}

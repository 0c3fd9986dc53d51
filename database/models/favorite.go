package models

import "gorm.io/gorm"

// Favorite 收藏书签。服务端持有而不是落在浏览器本地，
// 创建时校验被引用的资产存在且属于当前用户，避免悬空引用
type Favorite struct {
	gorm.Model
	UserID   uint      `gorm:"uniqueIndex:idx_fav_user_public,priority:1;not null" json:"-"`
	PublicID string    `gorm:"uniqueIndex:idx_fav_user_public,priority:2;not null" json:"public_id"`
	Kind     AssetKind `gorm:"type:varchar(10);not null" json:"kind"`
	Title    string    `gorm:"type:varchar(200)" json:"title"`
}

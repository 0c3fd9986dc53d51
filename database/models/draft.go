package models

import "gorm.io/gorm"

// Draft 社交分享草稿：资产 + 文案 + 输出格式，尚未发布
type Draft struct {
	gorm.Model
	UserID  uint  `gorm:"index;not null" json:"-"`
	AssetID uint  `gorm:"index;not null" json:"asset_id"`
	Asset   Asset `gorm:"foreignKey:AssetID" json:"asset"`

	Caption string `gorm:"type:varchar(2000)" json:"caption"`
	Format  string `gorm:"type:varchar(50)" json:"format"`

	// 自定义封面的远端存储键，可为空
	ThumbnailPublicID string `gorm:"type:varchar(255)" json:"thumbnail_public_id"`
}

package models

import "gorm.io/gorm"

// AssetKind 资产类型
type AssetKind string

const (
	AssetKindVideo AssetKind = "video"
	AssetKindImage AssetKind = "image"
)

// Valid 是否为受支持的资产类型
func (k AssetKind) Valid() bool {
	return k == AssetKindVideo || k == AssetKindImage
}

// Asset 用户上传的视频/图片，像素数据在托管服务或回退存储里，这里只有一行元数据
// PublicID 是远端存储键，写入后不可变
type Asset struct {
	gorm.Model
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	Kind        AssetKind `gorm:"type:varchar(10);not null;index" json:"kind"`
	PublicID    string    `gorm:"not null;index" json:"public_id"`

	OriginalSize  int64   `gorm:"not null;default:0" json:"original_size"`
	ProcessedSize int64   `gorm:"not null;default:0" json:"processed_size"`
	Duration      float64 `gorm:"not null;default:0" json:"duration"` // 秒，图片恒为 0

	// 自托管回退模式下为 true，交付走本服务而不是托管服务
	SelfHosted bool `gorm:"not null;default:false" json:"self_hosted"`

	UserID uint `gorm:"index:idx_asset_user_created,priority:1" json:"-"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
}

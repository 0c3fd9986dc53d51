package repositories

import (
	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/repo/accounts"
	"github.com/anoixa/media-studio/database/repo/assets"
	"github.com/anoixa/media-studio/database/repo/drafts"
	"github.com/anoixa/media-studio/database/repo/favorites"
)

// Repositories 集中管理所有数据库仓库
type Repositories struct {
	Accounts  *accounts.Repository
	Devices   *accounts.DeviceRepository
	Assets    *assets.Repository
	Drafts    *drafts.Repository
	Favorites *favorites.Repository
}

// NewRepositories 创建所有仓库实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Accounts:  accounts.NewRepository(db),
		Devices:   accounts.NewDeviceRepository(db),
		Assets:    assets.NewRepository(db),
		Drafts:    drafts.NewRepository(db),
		Favorites: favorites.NewRepository(db),
	}
}

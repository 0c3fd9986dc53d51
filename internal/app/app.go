package app

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/anoixa/media-studio/cache"
	"github.com/anoixa/media-studio/config"
	"github.com/anoixa/media-studio/database"
	"github.com/anoixa/media-studio/internal/ai"
	"github.com/anoixa/media-studio/internal/assets"
	"github.com/anoixa/media-studio/internal/auth"
	"github.com/anoixa/media-studio/internal/drafts"
	"github.com/anoixa/media-studio/internal/favorites"
	"github.com/anoixa/media-studio/internal/mediaapi"
	"github.com/anoixa/media-studio/internal/repositories"
	"github.com/anoixa/media-studio/storage"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config *config.Config
	db     *gorm.DB

	Repos         *repositories.Repositories
	CacheProvider cache.Provider
	Storage       storage.Provider
	Media         *mediaapi.Client

	LoginService     *auth.LoginService
	AssetsService    *assets.Service
	DraftsService    *drafts.Service
	FavoritesService *favorites.Service
	AIService        *ai.Service
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Init 初始化数据库与所有服务
func (c *Container) Init() error {
	if err := c.initDatabase(); err != nil {
		return err
	}
	if err := c.initServices(); err != nil {
		return err
	}
	return nil
}

func (c *Container) initDatabase() error {
	db, err := database.NewDB(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.db = db
	c.Repos = repositories.NewRepositories(db)
	return nil
}

func (c *Container) initServices() error {
	cfg := c.config

	// 缓存提供者，Redis 连不上时工厂内部已回退本地缓存
	cacheProvider, err := cache.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	c.CacheProvider = cacheProvider

	// 托管媒体服务客户端，未配置时 Configured() 为 false，走回退路径
	c.Media = mediaapi.NewClient(mediaapi.Config{
		CloudName:    cfg.MediaCloudName,
		APIKey:       cfg.MediaAPIKey,
		APISecret:    cfg.MediaAPISecret,
		UploadPreset: cfg.MediaUploadPreset,
	})

	// 自托管回退存储
	store, err := storage.NewProvider(cfg)
	if err != nil {
		if c.Media.Configured() {
			// 托管模式下回退存储只是可选项
			log.Printf("[app] fallback storage unavailable: %v", err)
		} else {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}
	c.Storage = store

	c.LoginService = auth.NewLoginService(c.Repos.Accounts, c.Repos.Devices)

	listTTL := time.Duration(cfg.CacheListTTL) * time.Second
	c.AssetsService = assets.NewService(
		c.Repos.Assets,
		c.Repos.Favorites,
		c.Media,
		c.Storage,
		c.CacheProvider,
		listTTL,
		cfg.BaseURL(),
	)

	c.DraftsService = drafts.NewService(c.Repos.Drafts, c.Repos.Assets)
	c.FavoritesService = favorites.NewService(c.Repos.Favorites, c.Repos.Assets)

	analysisTTL := time.Duration(cfg.CacheAnalysisTTL) * time.Second
	c.AIService = ai.NewService(c.Media, ai.VisionConfig{
		APIKey:  cfg.VisionAPIKey,
		BaseURL: cfg.VisionBaseURL,
		Model:   cfg.VisionModel,
	}, c.CacheProvider, analysisTTL)

	return nil
}

// DB 数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// AutoMigrate 自动 DDL
func (c *Container) AutoMigrate() error {
	if c.db == nil {
		return fmt.Errorf("database is not initialized")
	}
	return database.AutoMigrate(c.db)
}

// Close 关闭所有服务
func (c *Container) Close() error {
	if c.CacheProvider != nil {
		if err := c.CacheProvider.Close(); err != nil {
			log.Printf("[app] error closing cache provider: %v", err)
		}
	}

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("[app] error closing database: %v", err)
			}
		}
	}
	return nil
}

package core

import (
	"context"
	"time"

	"github.com/anoixa/media-studio/internal/app"
)

// checkDatabaseHealth 检查数据库连接状态
func checkDatabaseHealth(container *app.Container) string {
	db := container.DB()
	if db == nil {
		return "not initialized"
	}
	sqlDB, err := db.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// checkCacheHealth 检查缓存状态
func checkCacheHealth(container *app.Container) string {
	if container.CacheProvider == nil {
		return "not initialized"
	}
	return "ok"
}

// checkStorageHealth 检查回退存储状态
func checkStorageHealth(container *app.Container) string {
	if container.Storage == nil {
		// 托管媒体服务模式下本地存储可选
		if container.Media != nil && container.Media.Configured() {
			return "ok"
		}
		return "not initialized"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := container.Storage.Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

package cache

import (
	"fmt"
	"log"

	"github.com/anoixa/media-studio/config"
)

// NewProvider 按配置创建缓存提供者；redis 不可用时回退到进程内缓存
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.CacheType {
	case "redis":
		provider, err := NewRedisProvider(cfg.CacheRedisAddr, cfg.CacheRedisPassword, cfg.CacheRedisDB)
		if err != nil {
			log.Printf("Failed to connect to redis (%v), falling back to in-process cache", err)
			return NewRistrettoProvider()
		}
		return provider, nil
	case "ristretto", "memory", "":
		return NewRistrettoProvider()
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}

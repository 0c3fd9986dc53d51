package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto"
)

// ristrettoProvider 进程内缓存实现
type ristrettoProvider struct {
	client *ristretto.Cache
}

// NewRistrettoProvider 创建 Ristretto 缓存提供者
func NewRistrettoProvider() (Provider, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     64 << 20, // 64 MB
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoProvider{client: cache}, nil
}

// Set 设置缓存项，统一存 JSON 字节，成本按字节数计
func (r *ristrettoProvider) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if set := r.client.SetWithTTL(key, data, int64(len(data)), expiration); set {
		// 等待值被实际写入
		r.client.Wait()
	}
	return nil
}

// Get 获取缓存项
func (r *ristrettoProvider) Get(ctx context.Context, key string, dest interface{}) error {
	value, found := r.client.Get(key)
	if !found {
		return ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrCacheMiss
	}
	return nil
}

// Delete 删除缓存项
func (r *ristrettoProvider) Delete(ctx context.Context, key string) error {
	r.client.Del(key)
	return nil
}

// Exists 检查缓存项是否存在
func (r *ristrettoProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, found := r.client.Get(key)
	return found, nil
}

// Close 关闭缓存
func (r *ristrettoProvider) Close() error {
	r.client.Close()
	return nil
}

// Name 返回缓存提供者名称
func (r *ristrettoProvider) Name() string {
	return "ristretto"
}

package storage

import (
	"fmt"

	"github.com/anoixa/media-studio/config"
)

// NewProvider 根据配置创建存储提供者
//
// 自托管回退模式下使用，类型为 local、minio 或 webdav。
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.StorageType {
	case "local", "":
		return NewLocalStorage(cfg.StorageLocalPath)
	case "minio":
		return NewMinioStorage(MinioConfig{
			Endpoint:        cfg.StorageMinioEndpoint,
			AccessKeyID:     cfg.StorageMinioAccessKey,
			SecretAccessKey: cfg.StorageMinioSecretKey,
			BucketName:      cfg.StorageMinioBucket,
			UseSSL:          cfg.StorageMinioUseSSL,
		})
	case "webdav":
		return NewWebDAVStorage(WebDAVConfig{
			URL:      cfg.StorageWebdavURL,
			Username: cfg.StorageWebdavUsername,
			Password: cfg.StorageWebdavPassword,
			RootPath: cfg.StorageWebdavRoot,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 配置
type WebDAVConfig struct {
	URL      string
	Username string
	Password string
	RootPath string
}

// webdavStorage WebDAV 存储实现
type webdavStorage struct {
	client   *gowebdav.Client
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg WebDAVConfig) (Provider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.RootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)

	// 读根目录验证连通性
	if _, err := client.ReadDir(rootPath); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	return &webdavStorage{
		client:   client,
		rootPath: rootPath,
	}, nil
}

// fullPath 生成完整的 WebDAV 路径
func (s *webdavStorage) fullPath(identifier string) string {
	identifier = strings.TrimLeft(identifier, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + identifier
	}
	return "/" + identifier
}

// ensureParentDir 逐级创建父目录，目录已存在的冲突错误忽略
func (s *webdavStorage) ensureParentDir(fullPath string) error {
	parentDir := path.Dir(fullPath)
	if parentDir == "/" || parentDir == "." {
		return nil
	}

	currentPath := ""
	for _, part := range strings.Split(strings.Trim(parentDir, "/"), "/") {
		if part == "" {
			continue
		}
		currentPath = currentPath + "/" + part
		if err := s.client.Mkdir(currentPath, os.FileMode(0755)); err != nil {
			if !isCollectionExistsError(err) {
				return fmt.Errorf("failed to create directory %s: %w", currentPath, err)
			}
		}
	}
	return nil
}

// isCollectionExistsError 判断是否为目录已存在的错误
func isCollectionExistsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	for _, s := range []string{"already exists", "conflict", "Conflict", "409", "Method Not Allowed", "405"} {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}

// SaveWithContext 保存文件到 WebDAV
func (s *webdavStorage) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	if !IsValidIdentifier(identifier) {
		return fmt.Errorf("invalid storage identifier: %s", identifier)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := s.fullPath(identifier)
	if err := s.ensureParentDir(fullPath); err != nil {
		return fmt.Errorf("failed to ensure parent directory for %s: %w", identifier, err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	if err := s.client.Write(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", identifier, err)
	}
	return nil
}

// GetWithContext 从 WebDAV 获取文件
func (s *webdavStorage) GetWithContext(ctx context.Context, identifier string) (io.ReadSeeker, error) {
	if !IsValidIdentifier(identifier) {
		return nil, fmt.Errorf("invalid storage identifier: %s", identifier)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.client.Read(s.fullPath(identifier))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", identifier, err)
	}
	return bytes.NewReader(data), nil
}

// DeleteWithContext 从 WebDAV 删除文件
func (s *webdavStorage) DeleteWithContext(ctx context.Context, identifier string) error {
	if !IsValidIdentifier(identifier) {
		return fmt.Errorf("invalid storage identifier: %s", identifier)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.client.Remove(s.fullPath(identifier)); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", identifier, err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *webdavStorage) Exists(ctx context.Context, identifier string) (bool, error) {
	if !IsValidIdentifier(identifier) {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if _, err := s.client.Stat(s.fullPath(identifier)); err != nil {
		return false, nil
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *webdavStorage) Health(ctx context.Context) error {
	if _, err := s.client.ReadDir(s.rootPath); err != nil {
		return fmt.Errorf("webdav health check failed: %w", err)
	}
	return nil
}

// Name 返回存储名称
func (s *webdavStorage) Name() string {
	return "webdav"
}

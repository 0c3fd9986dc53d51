package storage

import (
	"context"
	"io"
	"regexp"
)

// Provider 回退存储提供者接口 - 依赖倒置的核心抽象
// 托管媒体服务未配置时，上传内容落到这里，由本服务自己交付
type Provider interface {
	// SaveWithContext 保存文件到存储
	SaveWithContext(ctx context.Context, identifier string, file io.Reader) error

	// GetWithContext 从存储获取文件
	GetWithContext(ctx context.Context, identifier string) (io.ReadSeeker, error)

	// DeleteWithContext 从存储删除文件
	DeleteWithContext(ctx context.Context, identifier string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, identifier string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}

// 标识符只允许路径安全字符，防目录穿越
var validIdentifier = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/-]*$`)

// IsValidIdentifier 校验存储标识符
func IsValidIdentifier(identifier string) bool {
	if identifier == "" || len(identifier) > 512 {
		return false
	}
	if !validIdentifier.MatchString(identifier) {
		return false
	}
	// 不允许 ".." 片段
	for i := 0; i+1 < len(identifier); i++ {
		if identifier[i] == '.' && identifier[i+1] == '.' {
			return false
		}
	}
	return true
}

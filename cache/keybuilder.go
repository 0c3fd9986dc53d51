package cache

import "fmt"

// 缓存 key 统一在这里拼，避免各处手写字符串漂移

// AssetListKey 用户资产列表缓存键
func AssetListKey(userID uint, kind string) string {
	if kind == "" {
		kind = "all"
	}
	return fmt.Sprintf("assets:list:%d:%s", userID, kind)
}

// AnalysisKey 单个资产的分析结果缓存键，tool 取 tags/ocr/moderate/transcribe
func AnalysisKey(tool, publicID string) string {
	return fmt.Sprintf("ai:%s:%s", tool, publicID)
}

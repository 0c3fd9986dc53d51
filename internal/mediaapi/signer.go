package mediaapi

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// SignParams 对请求参数做 API 签名。
// 算法与托管服务一致：参数按 key 排序后拼成 k=v&k2=v2，追加 API secret 取 SHA-1。
// 空值参数不参与签名。
func SignParams(params map[string]string, apiSecret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + apiSecret))
	return hex.EncodeToString(sum[:])
}

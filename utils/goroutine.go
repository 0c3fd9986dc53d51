package utils

import "log"

// SafeGo 拦截 panic 的 goroutine。
// 删除资产后对远端对象的尽力而为清理走这里，panic 不能带崩请求处理。
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[SafeGo] panic recovered: %v", err)
			}
		}()
		fn()
	}()
}

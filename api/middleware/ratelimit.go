package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/anoixa/media-studio/api/common"
)

// visitor 单个来源 IP 的令牌桶与最近活跃时间
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 按来源 IP 限流。
// auth / api / media 三个路由组各持一个实例，桶互不共享：
// 拉媒体文件的高频访问不会吃掉登录接口的配额。
type IPRateLimiter struct {
	scope    string        // 路由组名，只用于限流响应
	rps      float64       // 每秒补充的令牌数
	burst    int           // 桶容量
	idleTTL  time.Duration // 不活跃多久后回收
	visitors *sync.Map
	stopChan chan struct{}
}

// NewIPRateLimiter 创建一个路由组的 IP 限流器，后台定期回收不活跃的桶
func NewIPRateLimiter(scope string, rps float64, burst int, idleTTL time.Duration) *IPRateLimiter {
	limiter := &IPRateLimiter{
		scope:    scope,
		rps:      rps,
		burst:    burst,
		idleTTL:  idleTTL,
		visitors: &sync.Map{},
		stopChan: make(chan struct{}),
	}

	go limiter.evictIdleVisitors()

	return limiter
}

// Middleware 返回 gin 中间件
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := rl.visitorFor(getClientIP(c))
		v.lastSeen = time.Now()

		if !v.limiter.Allow() {
			common.RespondError(c, http.StatusTooManyRequests, "too many requests to "+rl.scope)
			c.Abort()
			return
		}

		c.Next()
	}
}

// visitorFor 取该 IP 的令牌桶，没有才新建
func (rl *IPRateLimiter) visitorFor(ip string) *visitor {
	if val, ok := rl.visitors.Load(ip); ok {
		return val.(*visitor)
	}
	val, _ := rl.visitors.LoadOrStore(ip, &visitor{
		limiter:  rate.NewLimiter(rate.Limit(rl.rps), rl.burst),
		lastSeen: time.Now(),
	})
	return val.(*visitor)
}

// StopCleanup 停掉后台回收 goroutine
func (rl *IPRateLimiter) StopCleanup() {
	close(rl.stopChan)
}

func (rl *IPRateLimiter) evictIdleVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.visitors.Range(func(key, value interface{}) bool {
				if time.Since(value.(*visitor).lastSeen) > rl.idleTTL {
					rl.visitors.Delete(key)
				}
				return true
			})
		case <-rl.stopChan:
			return
		}
	}
}

// getClientIP 反向代理后面取真实来源 IP
func getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/middleware"
	"github.com/anoixa/media-studio/config"
	"github.com/anoixa/media-studio/internal/app"
	"github.com/anoixa/media-studio/internal/auth"
)

var startTime = time.Now()

// 启动gin
func setupRouter(container *app.Container) (*gin.Engine, func()) {
	cfg := config.Get()
	router := gin.New()

	// 全局中间件
	// 仅在开发版本时启用 gin 日志
	if config.CommitHash == "n/a" {
		gin.SetMode(gin.ReleaseMode)
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 限制上传文件大小
	router.MaxMultipartMemory = cfg.UploadMaxBytes()

	// 请求ID追踪
	router.Use(middleware.RequestID())

	// 速率限制
	authRateLimiter := middleware.NewIPRateLimiter("auth", cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter("api", cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	mediaRateLimiter := middleware.NewIPRateLimiter("media", cfg.RateLimitMediaRPS, cfg.RateLimitMediaBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
		mediaRateLimiter.StopCleanup()
	}

	registerRoutes(router, container, routeLimiters{
		auth:  authRateLimiter,
		api:   apiRateLimiter,
		media: mediaRateLimiter,
	})

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(container *app.Container) (*http.Server, func()) {
	cfg := config.Get()
	router, clean := setupRouter(container)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}

// InitAuth 初始化 JWT 配置
func InitAuth() error {
	cfg := config.Get()
	return auth.TokenInit(cfg.JwtSecret, cfg.JwtExpiresIn, cfg.JwtRefreshExpiresIn)
}

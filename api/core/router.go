package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/anoixa/media-studio/api"
	"github.com/anoixa/media-studio/api/common"
	handlerAI "github.com/anoixa/media-studio/api/handler/ai"
	handlerAssets "github.com/anoixa/media-studio/api/handler/assets"
	handlerDrafts "github.com/anoixa/media-studio/api/handler/drafts"
	handlerFavorites "github.com/anoixa/media-studio/api/handler/favorites"
	handlerMedia "github.com/anoixa/media-studio/api/handler/media"
	handlerUploads "github.com/anoixa/media-studio/api/handler/uploads"
	"github.com/anoixa/media-studio/api/middleware"
	"github.com/anoixa/media-studio/config"
	"github.com/anoixa/media-studio/internal/app"
)

type routeLimiters struct {
	auth  *middleware.IPRateLimiter
	api   *middleware.IPRateLimiter
	media *middleware.IPRateLimiter
}

// registerRoutes 注册全部路由
func registerRoutes(router *gin.Engine, container *app.Container, limiters routeLimiters) {
	cfg := config.Get()

	// 创建处理器（依赖注入）
	loginHandler := api.NewLoginHandler(container.LoginService)
	assetsHandler := handlerAssets.NewHandler(container.AssetsService)
	draftsHandler := handlerDrafts.NewHandler(container.DraftsService)
	favoritesHandler := handlerFavorites.NewHandler(container.FavoritesService)
	uploadsHandler := handlerUploads.NewHandler(
		container.AssetsService,
		container.Media,
		container.Storage,
		cfg.UploadMaxBytes(),
		cfg.UploadFolder,
	)
	aiHandler := handlerAI.NewHandler(container.AIService)
	mediaHandler := handlerMedia.NewHandler(container.Storage)

	router.GET("/health", healthHandler(container))
	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 公共交付接口，自托管回退模式用
	publicGroup := router.Group("/media")
	publicGroup.Use(limiters.media.Middleware())
	{
		publicGroup.GET("/*identifier", mediaHandler.ServeHandler) // GET /media/{identifier}
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) { // 所有API禁止缓存
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		v1 := apiGroup.Group("/v1")

		authGroup := v1.Group("/auth")
		authGroup.Use(limiters.auth.Middleware())
		{
			authGroup.POST("/register", loginHandler.RegisterHandlerFunc) // POST /api/v1/auth/register
			authGroup.POST("/login", loginHandler.LoginHandlerFunc)       // POST /api/v1/auth/login
			authGroup.POST("/refresh", loginHandler.RefreshTokenHandlerFunc)
			authGroup.POST("/logout", loginHandler.LogoutHandlerFunc)
		}

		protected := v1.Group("")
		protected.Use(limiters.api.Middleware())
		protected.Use(middleware.JWTAuth())
		{
			assetsGroup := protected.Group("/assets")
			{
				assetsGroup.GET("", assetsHandler.ListAssetsHandler)              // GET /api/v1/assets
				assetsGroup.POST("", assetsHandler.CreateAssetHandler)            // POST /api/v1/assets
				assetsGroup.GET("/:id", assetsHandler.GetAssetHandler)            // GET /api/v1/assets/{id}
				assetsGroup.DELETE("/:id", assetsHandler.DeleteAssetHandler)      // DELETE /api/v1/assets/{id}
				assetsGroup.POST("/:id/derive", assetsHandler.DeriveAssetHandler) // POST /api/v1/assets/{id}/derive
			}

			draftsGroup := protected.Group("/drafts")
			{
				draftsGroup.GET("", draftsHandler.ListDraftsHandler)         // GET /api/v1/drafts
				draftsGroup.POST("", draftsHandler.SaveDraftHandler)         // POST /api/v1/drafts
				draftsGroup.DELETE("/:id", draftsHandler.DeleteDraftHandler) // DELETE /api/v1/drafts/{id}
			}

			favoritesGroup := protected.Group("/favorites")
			{
				favoritesGroup.GET("", favoritesHandler.ListFavoritesHandler)         // GET /api/v1/favorites
				favoritesGroup.POST("", favoritesHandler.CreateFavoriteHandler)       // POST /api/v1/favorites
				favoritesGroup.DELETE("/:id", favoritesHandler.DeleteFavoriteHandler) // DELETE /api/v1/favorites/{id}
			}

			uploadsGroup := protected.Group("/uploads")
			{
				uploadsGroup.GET("/credentials", uploadsHandler.CredentialsHandler) // GET /api/v1/uploads/credentials
				uploadsGroup.POST("/media", uploadsHandler.UploadMediaHandler)      // POST /api/v1/uploads/media
			}

			aiGroup := protected.Group("/ai")
			{
				aiGroup.POST("/vision", aiHandler.VisionHandler)         // POST /api/v1/ai/vision
				aiGroup.POST("/tags", aiHandler.TagsHandler)             // POST /api/v1/ai/tags
				aiGroup.POST("/ocr", aiHandler.OCRHandler)               // POST /api/v1/ai/ocr
				aiGroup.POST("/moderate", aiHandler.ModerateHandler)     // POST /api/v1/ai/moderate
				aiGroup.POST("/transcribe", aiHandler.TranscribeHandler) // POST /api/v1/ai/transcribe
			}
		}
	}
}

// healthHandler 健康检查
func healthHandler(container *app.Container) gin.HandlerFunc {
	return func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(container),
				"cache":    checkCacheHealth(container),
				"storage":  checkStorageHealth(container),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		context.JSON(httpStatus, health)
	}
}

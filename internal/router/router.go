package router

import (
	"net/http"
	"strings"

	"github.com/animania/internal/handler"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Config 路由层配置
type Config struct {
	// UploadDir is served under UploadURLPath when ServeUploads is set.
	UploadDir     string
	UploadURLPath string
	ServeUploads  bool
	Logger        zerolog.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(cfg.Logger))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".png", ".jpg", ".jpeg", ".gif", ".webp"})))
	r.Use(api.LoadUser())

	if cfg.ServeUploads && cfg.UploadDir != "" {
		urlPath := "/" + strings.Trim(cfg.UploadURLPath, "/")
		if urlPath == "/" {
			urlPath = "/uploads"
		}
		r.Static(urlPath, cfg.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		// 旧版注册接口，仅返回用户
		apiGroup.POST("/users", api.RegisterLegacy)

		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", api.Register)
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
			auth.GET("/verify", api.Verify)
		}

		apiGroup.GET("/posts", api.ListPosts)
		apiGroup.GET("/posts/category/:category", api.ListPostsByCategory)
		apiGroup.GET("/posts/:id", api.GetPost)
		apiGroup.GET("/search", api.Search)

		// 需要登录的接口
		member := apiGroup.Group("")
		member.Use(api.RequireUser())
		{
			member.POST("/posts", api.CreatePost)
			member.GET("/posts/user", api.ListMyContent)
			member.PUT("/posts/:id", api.UpdatePost)
			member.DELETE("/posts/:id", api.DeletePost)
			member.POST("/posts/:id/like", api.ToggleLike)
			member.POST("/posts/:id/view", api.RecordView)

			member.GET("/drafts/:id", api.GetDraft)
			member.PUT("/drafts/:id", api.UpdateDraft)
			member.DELETE("/drafts/:id", api.DeleteDraft)
			member.POST("/drafts/:id/publish", api.PublishDraft)

			member.POST("/uploads/image", api.UploadImage)
		}

		admin := apiGroup.Group("")
		admin.Use(api.RequireAdmin())
		{
			admin.PUT("/posts/:id/featured", api.SetFeatured)
		}
	}

	return r
}

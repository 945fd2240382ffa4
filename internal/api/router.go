package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/tutor_go_server/config"
	"github.com/qs3c/tutor_go_server/internal/api/handler"
	"github.com/qs3c/tutor_go_server/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	commentHandler      *handler.CommentHandler
	adminHandler        *handler.AdminHandler
	notificationHandler *handler.NotificationHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	commentHandler *handler.CommentHandler,
	adminHandler *handler.AdminHandler,
	notificationHandler *handler.NotificationHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		commentHandler:      commentHandler,
		adminHandler:        adminHandler,
		notificationHandler: notificationHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 评论 - 公开读取（可选认证）
		commentsPublic := api.Group("")
		commentsPublic.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			commentsPublic.GET("/tutorials/:id/comments", r.commentHandler.ListByTutorial)
			commentsPublic.GET("/courses/:id/comments", r.commentHandler.ListByCourse)
			commentsPublic.GET("/comments/:id/replies", r.commentHandler.ListReplies)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/auth/profile", r.authHandler.Profile)

			// 评论写操作
			comments := authenticated.Group("/comments")
			{
				comments.POST("", r.commentHandler.Create)
				comments.PUT("/:id", r.commentHandler.Update)
				comments.DELETE("/:id", r.commentHandler.Delete)
				comments.POST("/:id/like", r.commentHandler.ToggleLike)
				comments.POST("/:id/dislike", r.commentHandler.ToggleDislike)
				comments.POST("/:id/report", r.commentHandler.Report)
			}

			// 站内通知
			notifications := authenticated.Group("/notifications")
			{
				notifications.GET("", r.notificationHandler.List)
				notifications.PUT("/:id/read", r.notificationHandler.MarkRead)
			}
		}

		// 管理后台
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly())
		{
			admin.POST("/comments/:id/moderate", r.adminHandler.Moderate)
			admin.GET("/comments/reported", r.adminHandler.ListReported)
			admin.GET("/comments/stats", r.adminHandler.Stats)
		}
	}

	return engine
}

package main

import (
	"fmt"
	"log"

	"github.com/qs3c/tutor_go_server/config"
	"github.com/qs3c/tutor_go_server/internal/api"
	"github.com/qs3c/tutor_go_server/internal/api/handler"
	"github.com/qs3c/tutor_go_server/internal/database"
	"github.com/qs3c/tutor_go_server/internal/pkg/cron"
	"github.com/qs3c/tutor_go_server/internal/pkg/oss"
	"github.com/qs3c/tutor_go_server/internal/pkg/queue"
	"github.com/qs3c/tutor_go_server/internal/repository"
	"github.com/qs3c/tutor_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选，用于归档被删评论）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	contentRepo := repository.NewContentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	commentService := service.NewCommentService(commentRepo, reactionRepo, reportRepo, contentRepo, userRepo, notifyQueue, ossClient, cfg)
	queryService := service.NewCommentQueryService(commentRepo, reportRepo, contentRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	commentHandler := handler.NewCommentHandler(commentService, queryService)
	adminHandler := handler.NewAdminHandler(commentService, queryService)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	// 启动计数对账定时任务
	cronService := cron.NewService(commentRepo, contentRepo, cfg.Comment.ReconcileMinutes)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		commentHandler,
		adminHandler,
		notificationHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"

	"office-navigator/config"
	"office-navigator/db"
	"office-navigator/handler"
	"office-navigator/logger"
	"office-navigator/metrics"
	"office-navigator/routing"
	"office-navigator/store"
)

func main() {
	cfg := config.Load()
	l := logger.Setup()
	defer logger.Close()
	l.Info("server_boot", "storage", cfg.Storage, "addr", cfg.HTTPAddr)

	// 1. 目录存储与管理员账号
	switch cfg.Storage {
	case config.StoragePostgres:
		// 连接 PostgreSQL，自动迁移表结构；第一次运行时导入 offices.json
		if err := db.InitDB(cfg); err != nil {
			l.Error("db_init_error", "err", err)
			os.Exit(1)
		}
		repo := db.NewRepository(db.DB)
		handler.Directory = repo
		handler.Users = repo
	default:
		handler.Directory = store.NewFileStore(cfg.DirectoryPath)
		users, err := handler.NewStaticUsers(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			l.Error("admin_user_error", "err", err)
			os.Exit(1)
		}
		if len(users) == 0 {
			l.Warn("admin_login_disabled", "hint", "set ADMIN_PASSWORD")
		}
		handler.Users = users
	}

	// 2. 后台草稿: 配置了 Redis 时保存在 Redis, 否则在内存中
	if rc := store.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB); rc != nil {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		handler.Drafts = store.NewRedisDraftStore(rc, cfg.DraftTTL)
	} else {
		l.Info("redis_disabled")
		handler.Drafts = store.NewMemoryDraftStore()
	}

	// 3. 步行路网
	handler.Router = routing.NewOSRMClient(cfg.OSRMURL, cfg.OSRMRate, cfg.OSRMBurst)
	handler.SetJWTSecret(cfg.JWTSecret)
	if !handler.AdminEnabled() {
		l.Warn("admin_api_disabled", "hint", "set JWT_SECRET")
	}

	// 4. 初始化 Gin 引擎并配置路由
	r := gin.New()
	r.Use(gin.Recovery())
	setupRoutes(r)

	l.Info("server_start", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		l.Error("server_start_error", "err", err)
		os.Exit(1)
	}
}

// setupRoutes 配置路由
func setupRoutes(r *gin.Engine) {
	r.Use(logger.AccessMiddleware(logger.L()), metrics.Middleware())

	// CORS 跨域中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API 路由组
	api := r.Group("/api")
	{
		// 公开接口 (无需认证)
		api.POST("/login", handler.Login)

		// 目录与导航
		api.GET("/directory", handler.GetDirectory)
		api.GET("/offices", handler.GetOffices)
		api.GET("/offices/search", handler.SearchOffices)
		api.GET("/offices/:name", handler.GetOfficeByName)
		api.GET("/offices/:name/geojson", handler.GetOfficeGeoJSON)
		api.POST("/route", handler.FindRoute)

		// 后台编辑 (需要认证), 没有签名密钥时不注册
		if !handler.AdminEnabled() {
			return
		}
		authorized := api.Group("/admin")
		authorized.Use(handler.AuthMiddleware())
		{
			authorized.GET("/directory", handler.GetAdminDirectory)
			authorized.PUT("/building", handler.UpdateBuilding)
			authorized.POST("/offices", handler.CreateOffice)
			authorized.PATCH("/offices/:index", handler.UpdateOffice)
			authorized.DELETE("/offices/:index", handler.DeleteOffice)
			authorized.POST("/publish", handler.Publish)
			authorized.DELETE("/draft", handler.DiscardDraft)
			authorized.GET("/export", handler.ExportDirectory)
		}
	}
}

package app

import (
	"context"
	"log"
	"time"

	"lost_and_found_tool/blob"
	"lost_and_found_tool/db"
	"lost_and_found_tool/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router   *gin.Engine
	DB       *gorm.DB
	RDB      *redis.Client
	Log      *zap.SugaredLogger
	Blobs    blob.Store
	Sessions *session.Store
	Config   Config

	zlog *zap.Logger
}

func MustNew() *App {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	sugar := zlog.Sugar()

	// --- DB: Postgres ---
	dbConn, err := db.ConnectDB(cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	if err != nil {
		sugar.Fatalw("database", "error", err)
	}
	sugar.Infow("database connected", "host", cfg.DBHost, "name", cfg.DBName)

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sugar.Fatalw("redis", "error", err)
	}

	// --- Blob store: local disk, served at /uploads ---
	blobs, err := blob.NewLocalStore(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		sugar.Fatalw("blob store", "error", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router:   r,
		DB:       dbConn,
		RDB:      rdb,
		Log:      sugar,
		Blobs:    blobs,
		Sessions: session.NewStore(rdb, cfg.SessionTTL),
		Config:   cfg,
		zlog:     zlog,
	}
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.zlog.Sync()
}

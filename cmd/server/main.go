package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/animania/internal/auth"
	"github.com/animania/internal/config"
	"github.com/animania/internal/db"
	"github.com/animania/internal/handler"
	"github.com/animania/internal/logger"
	"github.com/animania/internal/router"
	"github.com/animania/internal/service"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", true)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, !cfg.Production())
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if reindexed, err := service.NewSearchService(gdb).Reindex(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to build search index")
	} else if reindexed > 0 {
		log.Info().Int("posts", reindexed).Msg("search index rebuilt")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token service")
	}

	// 配置了 blob token 时上传到远端存储，否则落盘并由本服务提供静态访问
	var store service.ImageStore
	serveUploads := cfg.BlobToken == ""
	if serveUploads {
		store = service.NewLocalImageStore(cfg.UploadDir, cfg.UploadURLPath)
	} else {
		store = service.NewRemoteImageStore(cfg.BlobAPIURL, cfg.BlobToken, log)
	}
	images := service.NewImageUploader(store, cfg.MaxUploadBytes)

	api := handler.NewAPI(gdb, tokens, images, log, handler.Options{SecureCookies: cfg.Production()})
	r := router.SetupRouter(api, router.Config{
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
		ServeUploads:  serveUploads,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}
	log.Info().Msg("server exited")
}

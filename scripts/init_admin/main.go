package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/animania/internal/config"
	"github.com/animania/internal/db"
	"github.com/animania/internal/logger"
	"github.com/animania/internal/service"
)

// 创建管理员账号，已存在同邮箱用户时跳过。
func main() {
	log := logger.New("info", true)

	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingJWTSecret) {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	name := flag.String("name", envOr("ADMIN_NAME", "Admin"), "display name")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal().Msg("email and password are required (-email/-password or ADMIN_EMAIL/ADMIN_PASSWORD)")
	}

	gdb, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close(gdb)

	user, err := service.NewUserService(gdb).Register(context.Background(), service.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     db.RoleAdmin,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		log.Info().Str("email", service.NormalizeEmail(*email)).Msg("user already exists, nothing to do")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin")
	}

	log.Info().Uint("id", user.ID).Str("email", user.Email).Msg("admin created")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	Env            string
	DatabaseDriver string
	DatabaseURL    string
	JWTSecret      string
	GinMode        string
	LogLevel       string
	UploadDir      string
	UploadURLPath  string
	MaxUploadBytes int64
	BlobToken      string
	BlobAPIURL     string
}

// Production reports whether the service runs with production defaults
// (secure cookies, JSON logs).
func (c AppConfig) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供默认值。
// 缺少 JWT_SECRET 时返回 ErrMissingJWTSecret，服务进程应直接退出。
func Load() (AppConfig, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	port := env("PORT", "3000")

	cfg := AppConfig{
		Port:           port,
		ListenAddr:     env("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Env:            env("APP_ENV", "development"),
		DatabaseDriver: env("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:    env("DATABASE_URL", "animania.db"),
		JWTSecret:      env("JWT_SECRET", ""),
		LogLevel:       env("LOG_LEVEL", "info"),
		UploadDir:      env("UPLOAD_DIR", "uploads"),
		UploadURLPath:  env("UPLOAD_URL_PATH", "/uploads"),
		BlobToken:      env("BLOB_READ_WRITE_TOKEN", ""),
		BlobAPIURL:     env("BLOB_API_URL", "https://blob.vercel-storage.com"),
	}

	defaultGinMode := "debug"
	if cfg.Production() {
		defaultGinMode = "release"
	}
	cfg.GinMode = env("GIN_MODE", defaultGinMode)

	maxUploadMB := int64(5)
	if raw := env("MAX_UPLOAD_MB", ""); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return AppConfig{}, fmt.Errorf("invalid MAX_UPLOAD_MB %q", raw)
		}
		maxUploadMB = parsed
	}
	cfg.MaxUploadBytes = maxUploadMB << 20

	// The rest of cfg stays usable for tools that never sign tokens.
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingJWTSecret
	}

	return cfg, nil
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

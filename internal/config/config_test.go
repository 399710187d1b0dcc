package config

import (
	"errors"
	"testing"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MAX_UPLOAD_MB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.ListenAddr != ":3000" {
		t.Fatalf("expected listen addr :3000, got %q", cfg.ListenAddr)
	}
	if cfg.DatabaseDriver != "sqlite" || cfg.DatabaseURL != "animania.db" {
		t.Fatalf("unexpected database defaults: %q %q", cfg.DatabaseDriver, cfg.DatabaseURL)
	}
	if cfg.Production() {
		t.Fatal("expected development environment by default")
	}
	if cfg.GinMode != "debug" {
		t.Fatalf("expected debug gin mode, got %q", cfg.GinMode)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Fatalf("expected 5MB upload cap, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadProductionSwitchesGinMode(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GIN_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Production() {
		t.Fatal("expected production environment")
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected release gin mode, got %q", cfg.GinMode)
	}
}

func TestLoadRejectsInvalidUploadLimit(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MAX_UPLOAD_MB", "lots")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid MAX_UPLOAD_MB")
	}
}

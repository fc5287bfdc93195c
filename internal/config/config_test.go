package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("DB_PATH", "")

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.DatabasePath != "./gamepal.db" {
		t.Errorf("DatabasePath = %q, want ./gamepal.db", cfg.DatabasePath)
	}
	if cfg.SessionDuration != 24*time.Hour {
		t.Errorf("SessionDuration = %v, want 24h", cfg.SessionDuration)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/gamepal")
	t.Setenv("SES_FROM_EMAIL", "noreply@example.com")

	cfg := Load()

	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want 9000", cfg.ServerPort)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("DatabaseType = %q, want postgres", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "postgres://localhost/gamepal" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.SESFromEmail != "noreply@example.com" {
		t.Errorf("SESFromEmail = %q", cfg.SESFromEmail)
	}
}

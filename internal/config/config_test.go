package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/telemed_test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("pool defaults = %d/%d, want 20/5", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.UploadDir != "./uploads" {
		t.Errorf("UploadDir = %q", cfg.UploadDir)
	}
	if cfg.RequestTimeoutDuration() != 30*time.Second {
		t.Errorf("RequestTimeoutDuration = %v, want 30s", cfg.RequestTimeoutDuration())
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/telemed",
		DBMaxConns:  10,
		DBMinConns:  2,
		UploadDir:   "./uploads",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.DBMinConns = 50
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when min conns exceed max conns")
	}

	cfg.DBMinConns = 2
	cfg.UploadDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when UPLOAD_DIR is empty")
	}
}

func TestRequestTimeoutFallback(t *testing.T) {
	cfg := &Config{RequestTimeout: 0}
	if cfg.RequestTimeoutDuration() != 30*time.Second {
		t.Errorf("zero timeout should fall back to 30s, got %v", cfg.RequestTimeoutDuration())
	}
	cfg.RequestTimeout = 5
	if cfg.RequestTimeoutDuration() != 5*time.Second {
		t.Errorf("got %v, want 5s", cfg.RequestTimeoutDuration())
	}
}

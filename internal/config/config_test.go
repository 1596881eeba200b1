package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.BaseURL != "https://next-level-backend.onrender.com" {
		t.Errorf("base URL = %q", cfg.BaseURL)
	}
	if cfg.TenantHeader != "X-Company-Id" || cfg.TenantQueryParam != "companyId" {
		t.Errorf("tenant config = %q/%q", cfg.TenantHeader, cfg.TenantQueryParam)
	}
	if cfg.NotificationTTL != 3500*time.Millisecond {
		t.Errorf("notification TTL = %v, want 3.5s", cfg.NotificationTTL)
	}
	if cfg.StripAPIPrefix || cfg.TracingEnabled || cfg.AdminEnabled {
		t.Error("feature toggles must default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NL_API_URL", "http://localhost:8080/")
	t.Setenv("NL_MAX_RETRIES", "7")
	t.Setenv("NL_NOTIFICATION_TTL", "2s")

	cfg := Load()

	if cfg.BaseURL != "http://localhost:8080/" {
		t.Errorf("base URL = %q", cfg.BaseURL)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("max retries = %d, want 7", cfg.MaxRetries)
	}
	if cfg.NotificationTTL != 2*time.Second {
		t.Errorf("notification TTL = %v, want 2s", cfg.NotificationTTL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nNL_DOTENV_TEST=from_file\nNL_DOTENV_KEPT=\"quoted\"\nbroken line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NL_DOTENV_TEST", "from_env")
	t.Setenv("NL_DOTENV_KEPT", "")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("NL_DOTENV_TEST"); got != "from_env" {
		t.Errorf("env var overridden by file: %q", got)
	}
	if got := os.Getenv("NL_DOTENV_KEPT"); got != "quoted" {
		t.Errorf("quoted value = %q, want quoted", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

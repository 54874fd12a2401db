package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

const minimalConfig = `
lms:
  base_url: https://canvas.example.edu
  access_token: secret-token
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Worker.Concurrency != 2 {
		t.Errorf("expected default concurrency 2, got %d", cfg.Worker.Concurrency)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("expected scheduler enabled by default")
	}
	if cfg.Auth.TokenTTL() != time.Hour {
		t.Errorf("expected default token TTL 1h, got %s", cfg.Auth.TokenTTL())
	}
	if cfg.LMS.BaseURL != "https://canvas.example.edu" {
		t.Errorf("unexpected base URL %q", cfg.LMS.BaseURL)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalConfig+`
server:
  port: 9090
worker:
  concurrency: 8
auth:
  clients:
    - client_id: studysync-android
      key_hash: $2a$10$abcdefg
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Worker.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Worker.Concurrency)
	}
	if len(cfg.Auth.Clients) != 1 || cfg.Auth.Clients[0].ClientID != "studysync-android" {
		t.Errorf("unexpected clients %+v", cfg.Auth.Clients)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STUDYSYNC_SERVER_PORT", "7070")
	t.Setenv("STUDYSYNC_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(writeConfigFile(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("unexpected redis URL %q", cfg.Redis.URL)
	}
}

func TestLoad_MissingLMSConfig(t *testing.T) {
	_, err := Load(writeConfigFile(t, "server:\n  port: 8080\n"))
	if err == nil {
		t.Fatal("expected error for missing lms config")
	}
	if !strings.Contains(err.Error(), "lms.base_url") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LMS.BaseURL = "https://canvas.example.edu"
	cfg.LMS.AccessToken = "tok"
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.DeepSeekBaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("DeepSeekBaseURL = %q", cfg.DeepSeekBaseURL)
	}
	if cfg.CoachModel != "deepseek-chat" {
		t.Errorf("CoachModel = %q", cfg.CoachModel)
	}
	if cfg.DBPath != "pdca.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ExportDir != "." {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
	if cfg.UpstreamTimeout != 0 {
		t.Errorf("UpstreamTimeout = %v, want 0", cfg.UpstreamTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("DEEPSEEK_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("COACH_MODEL", "deepseek-reasoner")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "30")
	t.Setenv("COACH_SERVER_URL", "http://localhost:9001")
	t.Setenv("PDCA_DB_PATH", "/tmp/x.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9001 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DeepSeekAPIKey != "sk-test" {
		t.Errorf("DeepSeekAPIKey = %q", cfg.DeepSeekAPIKey)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.CoachServerURL != "http://localhost:9001" {
		t.Errorf("CoachServerURL = %q", cfg.CoachServerURL)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	for _, port := range []string{"0", "-1", "70000"} {
		t.Setenv("PORT", port)
		if _, err := Load(); err == nil {
			t.Errorf("Load with PORT=%s succeeded, want error", port)
		}
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "-5")
	if _, err := Load(); err == nil {
		t.Error("Load with negative timeout succeeded, want error")
	}
}

func TestLoadIgnoresUnparseableInt(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want default 8000", cfg.Port)
	}
}

func TestHTTPClient(t *testing.T) {
	cfg := &Config{}
	if cfg.HTTPClient() != nil {
		t.Error("zero timeout should yield nil client (transport defaults)")
	}

	cfg.UpstreamTimeout = 10 * time.Second
	client := cfg.HTTPClient()
	if client == nil || client.Timeout != 10*time.Second {
		t.Errorf("HTTPClient() = %+v", client)
	}
}

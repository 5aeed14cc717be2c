package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	content := []byte(`
widget:
  server_url: http://10.0.0.2:8080
  token: secret
  interface_name: wlan0
server:
  port: "9090"
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Widget.ServerURL != "http://10.0.0.2:8080" {
		t.Errorf("Expected server_url from file, got %q", cfg.Widget.ServerURL)
	}
	if cfg.Widget.InterfaceName != "wlan0" {
		t.Errorf("Expected interface_name wlan0, got %q", cfg.Widget.InterfaceName)
	}
	if cfg.Widget.BoxCount != 10 || cfg.Widget.MonthlyLimitGB != 1000 || cfg.Widget.RefreshInterval != 300 {
		t.Errorf("Expected defaults to survive, got %+v", cfg.Widget)
	}
	if !cfg.Widget.IsSquare {
		t.Errorf("Expected is_square default true")
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Server.NATSSubject != "vnstat.traffic" {
		t.Errorf("Expected default nats subject, got %q", cfg.Server.NATSSubject)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Expected error for missing file")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("widget: [unclosed"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("Expected error for malformed YAML")
	}
}

func TestWidgetConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WidgetConfig)
		wantErr bool
	}{
		{"defaults", func(c *WidgetConfig) {}, false},
		{"empty url", func(c *WidgetConfig) { c.ServerURL = " " }, true},
		{"zero limit", func(c *WidgetConfig) { c.MonthlyLimitGB = 0 }, true},
		{"zero boxes", func(c *WidgetConfig) { c.BoxCount = 0 }, true},
		{"zero refresh", func(c *WidgetConfig) { c.RefreshInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultWidgetConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWidgetConfig_ApplyEnv(t *testing.T) {
	t.Setenv("VNWIDGET_SERVER_URL", "http://example.test")
	t.Setenv("VNWIDGET_TOKEN", "")

	cfg := DefaultWidgetConfig()
	cfg.Token = "from-file"
	cfg.ApplyEnv()

	if cfg.ServerURL != "http://example.test" {
		t.Errorf("Expected env server url, got %q", cfg.ServerURL)
	}
	if cfg.Token != "" {
		t.Errorf("Expected explicitly empty env token to clear token, got %q", cfg.Token)
	}
}

func TestServerConfig_Grafana(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.GrafanaEnabled() || cfg.GrafanaPartial() {
		t.Fatalf("Expected grafana disabled by default")
	}

	cfg.Grafana.URL = "https://prom.example/api/prom/push"
	if cfg.GrafanaEnabled() || !cfg.GrafanaPartial() {
		t.Errorf("Expected partial grafana config")
	}

	cfg.Grafana.User = "123"
	cfg.Grafana.Token = "abc"
	if !cfg.GrafanaEnabled() || cfg.GrafanaPartial() {
		t.Errorf("Expected grafana fully enabled")
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("", 3*time.Second)
	if err != nil || d != 3*time.Second {
		t.Errorf("Expected fallback, got %v, %v", d, err)
	}
	d, err = ParseDuration("250ms", time.Second)
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v, %v", d, err)
	}
	if _, err := ParseDuration("soon", time.Second); err == nil {
		t.Errorf("Expected error for invalid duration")
	}
	if _, err := ParseDuration("-1s", time.Second); err == nil {
		t.Errorf("Expected error for negative duration")
	}
}

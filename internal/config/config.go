package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WidgetConfig holds the settings of the traffic widget.
type WidgetConfig struct {
	ServerURL       string  `yaml:"server_url"`
	Token           string  `yaml:"token"`
	RefreshInterval int     `yaml:"refresh_interval"` // seconds
	InterfaceName   string  `yaml:"interface_name"`
	WidgetTitle     string  `yaml:"widget_title"`
	MonthlyLimitGB  float64 `yaml:"monthly_limit_gb"`
	BoxCount        int     `yaml:"box_count"`
	IsSquare        bool    `yaml:"is_square"`
}

// GrafanaConfig holds Grafana Cloud remote write settings.
type GrafanaConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Token    string `yaml:"token"`
	Interval string `yaml:"interval"`
}

// ServerConfig holds the settings of the vnstat HTTP server.
type ServerConfig struct {
	Port        string        `yaml:"port"`
	Token       string        `yaml:"token"`
	Interface   string        `yaml:"interface"`
	JWTSecret   string        `yaml:"jwt_secret"`
	RateLimit   float64       `yaml:"rate_limit"`
	RateBurst   int           `yaml:"rate_burst"`
	CacheTTL    string        `yaml:"cache_ttl"`
	WSInterval  string        `yaml:"ws_interval"`
	Grafana     GrafanaConfig `yaml:"grafana"`
	NATSURL     string        `yaml:"nats_url"`
	NATSSubject string        `yaml:"nats_subject"`
}

// Config is the top-level configuration file layout.
type Config struct {
	Widget WidgetConfig `yaml:"widget"`
	Server ServerConfig `yaml:"server"`
}

func DefaultWidgetConfig() WidgetConfig {
	return WidgetConfig{
		ServerURL:       "http://localhost:8080",
		RefreshInterval: 300,
		WidgetTitle:     "Traffic Monitor",
		MonthlyLimitGB:  1000,
		BoxCount:        10,
		IsSquare:        true,
	}
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:        "8080",
		RateLimit:   20,
		RateBurst:   40,
		CacheTTL:    "1s",
		WSInterval:  "5s",
		Grafana:     GrafanaConfig{Interval: "30s"},
		NATSSubject: "vnstat.traffic",
	}
}

func DefaultConfig() Config {
	return Config{
		Widget: DefaultWidgetConfig(),
		Server: DefaultServerConfig(),
	}
}

// LoadConfig reads the configuration from a YAML file on top of the defaults.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides widget connection settings from the environment.
func (c *WidgetConfig) ApplyEnv() {
	if v := os.Getenv("VNWIDGET_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v, ok := os.LookupEnv("VNWIDGET_TOKEN"); ok {
		c.Token = v
	}
}

// Validate checks the widget settings the pipeline depends on.
func (c WidgetConfig) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.MonthlyLimitGB <= 0 {
		return fmt.Errorf("monthly_limit_gb must be positive, got %g", c.MonthlyLimitGB)
	}
	if c.BoxCount <= 0 {
		return fmt.Errorf("box_count must be positive, got %d", c.BoxCount)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %d", c.RefreshInterval)
	}
	return nil
}

// RefreshEvery returns the refresh interval as a duration.
func (c WidgetConfig) RefreshEvery() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// GrafanaEnabled reports whether all remote write settings are present.
func (c ServerConfig) GrafanaEnabled() bool {
	return c.Grafana.URL != "" && c.Grafana.User != "" && c.Grafana.Token != ""
}

// GrafanaPartial reports whether only some remote write settings are present.
func (c ServerConfig) GrafanaPartial() bool {
	return !c.GrafanaEnabled() && (c.Grafana.URL != "" || c.Grafana.User != "" || c.Grafana.Token != "")
}

// ParseDuration parses a duration setting, falling back when it is empty.
func ParseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", value)
	}
	return d, nil
}

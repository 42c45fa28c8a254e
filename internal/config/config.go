package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIURL is used when neither API_URL nor VITE_API_URL is set.
// The backend mounts its routers under /api.
const DefaultAPIURL = "http://localhost:8000/api"

// DefaultPortalURL points at the ANS page listing the procedure annexes.
const DefaultPortalURL = "https://www.gov.br/ans/pt-br/acesso-a-informacao/participacao-da-sociedade/atualizacao-do-rol-de-procedimentos"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIURL       string        `mapstructure:"api_url"`
	APITimeoutMs int64         `mapstructure:"api_timeout_ms"`
	APITimeout   time.Duration `mapstructure:"-"`
	PortalURL    string        `mapstructure:"portal_url"`

	PublishersFile        string        `mapstructure:"publishers_file"`
	ExportIntervalSeconds int64         `mapstructure:"export_interval"`
	ExportInterval        time.Duration `mapstructure:"-"`
	ExportPageSize        int           `mapstructure:"export_page_size"`
	ExportDatasetsRaw     string        `mapstructure:"export_datasets"`
	ExportDatasets        []string      `mapstructure:"-"`
	ExportPagesPerSecond  float64       `mapstructure:"export_pages_per_second"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "ans-operadoras")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("api_timeout_ms", 10000)
	v.SetDefault("portal_url", DefaultPortalURL)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("export_interval", 3600) // seconds
	v.SetDefault("export_page_size", 100)
	v.SetDefault("export_datasets", "operadoras,demonstracoes")
	v.SetDefault("export_pages_per_second", 5.0)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/export.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()
	// The frontend build used VITE_API_URL; keep honouring it.
	if err := v.BindEnv("api_url", "API_URL", "VITE_API_URL"); err != nil {
		return nil, fmt.Errorf("bind api_url env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q (must be absolute)", cfg.APIURL)
	}

	if cfg.APITimeoutMs <= 0 {
		return fmt.Errorf("invalid api_timeout_ms (must be positive milliseconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutMs) * time.Millisecond

	if cfg.ExportIntervalSeconds <= 0 {
		return fmt.Errorf("invalid export_interval (must be positive seconds)")
	}
	cfg.ExportInterval = time.Duration(cfg.ExportIntervalSeconds) * time.Second

	if cfg.ExportPageSize <= 0 {
		return fmt.Errorf("invalid export_page_size (must be positive)")
	}
	if cfg.ExportPagesPerSecond < 0 {
		return fmt.Errorf("invalid export_pages_per_second (must not be negative)")
	}
	cfg.ExportDatasets = splitList(cfg.ExportDatasetsRaw)

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

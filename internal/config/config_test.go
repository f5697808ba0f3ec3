package config

import (
	"testing"
	"time"

	"github.com/gw2hardcore/contest-server/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "gw2-contest-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.GW2BaseURL != "https://api.guildwars2.com" {
		t.Fatalf("unexpected game api base url: %q", cfg.GW2BaseURL)
	}
	if cfg.GW2Timeout != 15*time.Second || cfg.GW2MaxRetries != 2 {
		t.Fatalf("unexpected game api defaults: timeout=%s retries=%d", cfg.GW2Timeout, cfg.GW2MaxRetries)
	}
	if !cfg.GW2CircuitEnabled || cfg.GW2CircuitFailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: enabled=%v failures=%d", cfg.GW2CircuitEnabled, cfg.GW2CircuitFailureCount)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=https://token@api.uptrace.dev/123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/123" {
		t.Fatalf("unexpected DSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_GW2SettingsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("GW2_API_BASE_URL", "https://mirror.example")
	t.Setenv("GW2_API_TIMEOUT", "30s")
	t.Setenv("GW2_API_MAX_RETRIES", "4")
	t.Setenv("GW2_API_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GW2BaseURL != "https://mirror.example" {
		t.Fatalf("unexpected base url: %q", cfg.GW2BaseURL)
	}
	if cfg.GW2Timeout != 30*time.Second || cfg.GW2MaxRetries != 4 {
		t.Fatalf("unexpected settings: timeout=%s retries=%d", cfg.GW2Timeout, cfg.GW2MaxRetries)
	}
	if cfg.GW2CircuitEnabled {
		t.Fatalf("circuit should be disabled")
	}
}

func TestLoad_InvalidGW2Timeout(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GW2_API_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid GW2_API_TIMEOUT")
	}
}

func TestLoad_NegativeRetriesRejected(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GW2_API_MAX_RETRIES", "-1")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative GW2_API_MAX_RETRIES")
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://a.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestParseLogLevel(t *testing.T) {
	if got := parseLogLevel("debug"); got != logging.LevelDebug {
		t.Fatalf("unexpected level for debug: %v", got)
	}
	if got := parseLogLevel("WARNING"); got != logging.LevelWarn {
		t.Fatalf("unexpected level for warning: %v", got)
	}
	if got := parseLogLevel("nonsense"); got != logging.LevelInfo {
		t.Fatalf("unknown levels fall back to info: %v", got)
	}
}

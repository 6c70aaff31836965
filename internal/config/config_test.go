package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URI", "JWT_AUTH", "JWT_REFRESH", "SETUP_SECRET", "ACCESS_TTL",
		"DEVICES_FILE", "MQTT_BROKER", "MQTT_CLIENT_ID", "BASE_URL", "ENABLE_HTTPS",
		"CREDENTIALS_DIR", "CLIENT_DB_PATH", "HTTP_TIMEOUT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-auth-secret" || cfg.RefreshSecret != "dev-refresh-secret" {
		t.Fatalf("secret defaults not applied: %q %q", cfg.AuthSecret, cfg.RefreshSecret)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("AccessTTL default expected 15m, got %s", cfg.AccessTTL)
	}
	if cfg.BaseURL != "localhost:8080" {
		t.Fatalf("BaseURL default expected 'localhost:8080', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Fatalf("ServerURL default expected 'http://localhost:8080', got %q", cfg.ServerURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("HTTPTimeout default expected 30s, got %s", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel default expected warn, got %q", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.CredentialsDir, "LightAdmin") {
		t.Fatalf("CredentialsDir default unexpected: %q", cfg.CredentialsDir)
	}
	if cfg.ClientDBPath != filepath.Join(cfg.CredentialsDir, "users") {
		t.Fatalf("ClientDBPath default unexpected: %q", cfg.ClientDBPath)
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_URL", "lights.local:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("JWT_AUTH", "a-secret")
	t.Setenv("ACCESS_TTL", "90s")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CREDENTIALS_DIR", "/tmp/creds")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.ServerURL != "https://lights.local:443" {
		t.Fatalf("ServerURL expected 'https://lights.local:443', got %q", cfg.ServerURL)
	}
	if cfg.AuthSecret != "a-secret" {
		t.Fatalf("AuthSecret expected from env, got %q", cfg.AuthSecret)
	}
	if cfg.AccessTTL != 90*time.Second {
		t.Fatalf("AccessTTL expected 90s, got %s", cfg.AccessTTL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("HTTPTimeout expected 5s, got %s", cfg.HTTPTimeout)
	}
	if cfg.CredentialsDir != "/tmp/creds" {
		t.Fatalf("CredentialsDir expected from env, got %q", cfg.CredentialsDir)
	}
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	clearEnv(t)
	// BASE_URL со схемой невалиден и откатывается на значение по умолчанию
	t.Setenv("BASE_URL", "http://bad:8080")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8080" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8080', got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://localhost:8080") {
		t.Fatalf("ServerURL must reflect fallback base, got %q", cfg.ServerURL)
	}
}

package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN   string        `env:"DATABASE_URI"`
	AuthSecret    string        `env:"JWT_AUTH"`
	RefreshSecret string        `env:"JWT_REFRESH"`
	SetupSecret   string        `env:"SETUP_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TTL"`
	DevicesFile   string        `env:"DEVICES_FILE"`
	MQTTBroker    string        `env:"MQTT_BROKER"`
	MQTTClientID  string        `env:"MQTT_CLIENT_ID"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL      string        `env:"-"`
	CredentialsDir string        `env:"CREDENTIALS_DIR"`
	ClientDBPath   string        `env:"CLIENT_DB_PATH"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	Version        bool          `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags перекрывают значения из env
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (postgres:// URL or sqlite file)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "secret for access token signing")
	flag.StringVar(&cfg.RefreshSecret, "refresh-secret", cfg.RefreshSecret, "secret for refresh token signing")
	flag.StringVar(&cfg.SetupSecret, "setup-secret", cfg.SetupSecret, "one-time key for the first account setup")
	flag.DurationVar(&cfg.AccessTTL, "access-ttl", cfg.AccessTTL, "access token lifetime")
	flag.StringVar(&cfg.DevicesFile, "devices", cfg.DevicesFile, "path to YAML device inventory")
	flag.StringVar(&cfg.MQTTBroker, "mqtt", cfg.MQTTBroker, "MQTT broker URL for light dispatch (empty = log only)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the LightAdmin API (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "use https scheme for the API")
	// Client flags
	flag.StringVar(&cfg.CredentialsDir, "credentials-dir", cfg.CredentialsDir, "directory with stored credentials (client)")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "base directory of client snapshot databases")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP client timeout")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "client log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-auth-secret"
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = "dev-refresh-secret"
	}
	if cfg.SetupSecret == "" {
		cfg.SetupSecret = "dev-setup-secret"
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "lightadmin.db"
	}
	if cfg.MQTTClientID == "" {
		cfg.MQTTClientID = "lightadmin-server"
	}

	// BaseURL должен быть "host:port" без схемы и пути, иначе берём значение по умолчанию
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	base, err := os.UserConfigDir()
	if err != nil {
		base, _ = os.UserHomeDir()
	}
	if cfg.CredentialsDir == "" {
		cfg.CredentialsDir = filepath.Join(base, "LightAdmin")
	}
	if cfg.ClientDBPath == "" {
		cfg.ClientDBPath = filepath.Join(base, "LightAdmin", "users")
	}
}

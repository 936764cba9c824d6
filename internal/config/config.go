// Package config loads runtime settings from config files, .env and the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. VERESIYE_HTTP_PORT=9000.
const EnvPrefix = "VERESIYE"

type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// CORSOrigins lists browser origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Addr is the listen address.
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type BackupConfig struct {
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	RetentionDays int           `mapstructure:"retention_days"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type Config struct {
	DataDir   string       `mapstructure:"data_dir"`
	DBPath    string       `mapstructure:"db_path"`
	BackupDir string       `mapstructure:"backup_dir"`
	LogLevel  string       `mapstructure:"log_level"`
	HTTP      HTTPConfig   `mapstructure:"http"`
	Backup    BackupConfig `mapstructure:"backup"`
	Auth      AuthConfig   `mapstructure:"auth"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("db_path", "")
	v.SetDefault("backup_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.cors_origins", []string{})
	v.SetDefault("backup.tick_interval", time.Minute)
	v.SetDefault("backup.retention_days", 30)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
}

// Load reads configuration. A .env file in the working directory is applied
// first; then path (or config.yaml in the working or data directory when path
// is empty); then VERESIYE_* environment variables, which win.
func Load(path string) (*Config, error) {
	// Missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := DefaultDataDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve fills derived paths and validates ranges.
func (c *Config) resolve() error {
	if c.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "veresiye.db")
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.DataDir, "backups")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	if c.Backup.TickInterval <= 0 {
		return fmt.Errorf("backup.tick_interval must be positive, got %s", c.Backup.TickInterval)
	}
	if c.Backup.RetentionDays < 0 {
		return fmt.Errorf("backup.retention_days must not be negative, got %d", c.Backup.RetentionDays)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}

	if c.Auth.JWTSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		c.Auth.JWTSecret = hex.EncodeToString(secret)
		slog.Warn("auth.jwt_secret not set, sessions will not survive a restart")
	}
	return nil
}

// DefaultDataDir is %APPDATA%/VeresiyeDefteri on Windows and ~/.veresiyedefteri elsewhere.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil && runtime.GOOS != "windows" {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return dataDirFor(runtime.GOOS, os.Getenv("APPDATA"), home), nil
}

func dataDirFor(goos, appData, home string) string {
	if goos == "windows" {
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "VeresiyeDefteri")
	}
	return filepath.Join(home, ".veresiyedefteri")
}

package config

import (
	"fmt"
	"os"
	"time"

	pkglogger "github.com/recipeinbox/backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from configs/config.<APP_ENV>.yaml
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	CORS     CORSConfig     `yaml:"cors"`
	Storage  StorageConfig  `yaml:"storage"`
	Push     PushConfig     `yaml:"push"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	Port            int    `yaml:"port"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// GetDSN returns the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // seconds
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"` // comma separated
}

// StorageConfig S3-compatible bucket holding recipe images
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	Enabled         bool   `yaml:"enabled"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// PushConfig FCM delivery settings
type PushConfig struct {
	Endpoint            string `yaml:"endpoint"`
	ProjectID           string `yaml:"project_id"`
	CredentialsFile     string `yaml:"credentials_file"` // service account key
	AccessToken         string `yaml:"access_token"`     // emulator only
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
	TokenTimeoutSeconds int    `yaml:"token_timeout_seconds"`
	MaxConcurrency      int    `yaml:"max_concurrency"`
	Enabled             bool   `yaml:"enabled"`
}

// Timeout is the HTTP client timeout for the provider
func (p PushConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// TokenTimeout bounds delivery to a single device
func (p PushConfig) TokenTimeout() time.Duration {
	return time.Duration(p.TokenTimeoutSeconds) * time.Second
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML file at path, expanding ${VAR} references from the environment
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "local"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 50
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.JWT.ExpiresIn == 0 {
		c.JWT.ExpiresIn = 3600
	}
	if c.Push.TimeoutSeconds == 0 {
		c.Push.TimeoutSeconds = 10
	}
	if c.Push.TokenTimeoutSeconds == 0 {
		c.Push.TokenTimeoutSeconds = 5
	}
	if c.Push.MaxConcurrency == 0 {
		c.Push.MaxConcurrency = 8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// IsDevelopment reports whether the server runs in a local or development environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "local", "dev", "development":
		return true
	}
	return false
}

// LogResolved logs the effective configuration without secrets
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.Name).
		Str("redis_host", cfg.Redis.Host).
		Bool("storage_enabled", cfg.Storage.Enabled).
		Str("storage_bucket", cfg.Storage.Bucket).
		Bool("push_enabled", cfg.Push.Enabled).
		Bool("jwt_secret_set", cfg.JWT.Secret != "").
		Msg("config resolved")
}

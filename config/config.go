package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSecretKey is only fit for local development.
const DefaultSecretKey = "dev-only-secret-change-in-prod"

var ErrDefaultSecret = errors.New("SECRET_KEY must be set when GIN_MODE=release")

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	LogLevel string
}

type ServerConfig struct {
	Port           string
	GinMode        string
	TrustedProxies []string
	AllowedOrigin  string
}

type DatabaseConfig struct {
	Driver   string // postgres, mysql or sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	DSN      string
	MaxOpen  int
	MaxIdle  int
}

type AuthConfig struct {
	SecretKey    string
	TokenTTL     time.Duration
	CookieSecure bool
	LoginRate    int // attempts per minute per IP
}

type StorageConfig struct {
	Driver        string // local or s3
	UploadDir     string
	PublicBaseURL string
	MaxUploadSize int64
	S3Bucket      string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			TrustedProxies: getList("TRUSTED_PROXIES", []string{"127.0.0.1"}),
			AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:8080"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "cook_platform"),
			DSN:      getEnv("DB_DSN", ""),
			MaxOpen:  getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdle:  getInt("DB_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			SecretKey:    getEnv("SECRET_KEY", getEnv("JWT_SECRET", DefaultSecretKey)),
			TokenTTL:     getDuration("TOKEN_TTL", 24*time.Hour),
			CookieSecure: getBool("COOKIE_SECURE", false),
			LoginRate:    getInt("LOGIN_RATE_PER_MINUTE", 10),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "local"),
			UploadDir:     getEnv("UPLOAD_DIR", "public/uploads"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "/uploads"),
			MaxUploadSize: int64(getInt("MAX_UPLOAD_MB", 5)) << 20,
			S3Bucket:      getEnv("AWS_S3_BUCKET", ""),
			S3Region:      getEnv("AWS_S3_REGION", "us-east-1"),
			S3AccessKey:   getEnv("AWS_ACCESS_KEY", ""),
			S3SecretKey:   getEnv("AWS_SECRET_KEY", ""),
			S3Endpoint:    getEnv("AWS_S3_ENDPOINT", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate rejects settings the server must not run with.
func (c *Config) Validate() error {
	if c.Server.GinMode == "release" && c.Auth.SecretKey == DefaultSecretKey {
		return ErrDefaultSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	OCR    OCRConfig
	Filter FilterConfig
	CORS   CORSConfig
	Email  EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for invoice page images.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// OCRConfig holds document-analysis provider settings.
type OCRConfig struct {
	Provider         string `mapstructure:"provider"`
	Endpoint         string `mapstructure:"endpoint"`
	APIKey           string `mapstructure:"api_key"`
	ModelID          string `mapstructure:"model_id"`
	PollIntervalSecs int    `mapstructure:"poll_interval_secs"`
	TimeoutSecs      int    `mapstructure:"timeout_secs"`
}

// FilterConfig holds noise-filter classification settings.
type FilterConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	OnError     string  `mapstructure:"on_error"`
	MaxRetries  int     `mapstructure:"max_retries"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings for share notifications.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the LARDER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LARDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "larder")
	v.SetDefault("db.password", "larder_secret")
	v.SetDefault("db.name", "larder_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "24h")
	v.SetDefault("jwt.issuer", "larder")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "larder-invoice-pages")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// OCR defaults
	v.SetDefault("ocr.provider", "azure")
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.model_id", "prebuilt-invoice")
	v.SetDefault("ocr.poll_interval_secs", 2)
	v.SetDefault("ocr.timeout_secs", 300)

	// Filter defaults
	v.SetDefault("filter.api_key", "")
	v.SetDefault("filter.model", "mistral-medium-latest")
	v.SetDefault("filter.temperature", 0.0)
	v.SetDefault("filter.on_error", "fail_open")
	v.SetDefault("filter.max_retries", 0)
	v.SetDefault("filter.timeout_secs", 60)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@larder.app")
	v.SetDefault("email.from_name", "Larder")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "LARDER_SERVER_PORT",
		"server.read_timeout":    "LARDER_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "LARDER_SERVER_WRITE_TIMEOUT",
		"server.environment":     "LARDER_SERVER_ENVIRONMENT",
		"db.host":                "LARDER_DB_HOST",
		"db.port":                "LARDER_DB_PORT",
		"db.user":                "LARDER_DB_USER",
		"db.password":            "LARDER_DB_PASSWORD",
		"db.name":                "LARDER_DB_NAME",
		"db.sslmode":             "LARDER_DB_SSLMODE",
		"db.max_open":            "LARDER_DB_MAX_OPEN",
		"db.max_idle":            "LARDER_DB_MAX_IDLE",
		"jwt.secret":             "LARDER_JWT_SECRET",
		"jwt.access_expiry":      "LARDER_JWT_ACCESS_EXPIRY",
		"jwt.issuer":             "LARDER_JWT_ISSUER",
		"s3.region":              "LARDER_S3_REGION",
		"s3.bucket":              "LARDER_S3_BUCKET",
		"s3.endpoint":            "LARDER_S3_ENDPOINT",
		"s3.access_key":          "LARDER_S3_ACCESS_KEY",
		"s3.secret_key":          "LARDER_S3_SECRET_KEY",
		"s3.max_file_size_mb":    "LARDER_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":      "LARDER_S3_PRESIGN_EXPIRY",
		"ocr.provider":           "LARDER_OCR_PROVIDER",
		"ocr.endpoint":           "LARDER_OCR_ENDPOINT",
		"ocr.api_key":            "LARDER_OCR_API_KEY",
		"ocr.model_id":           "LARDER_OCR_MODEL_ID",
		"ocr.poll_interval_secs": "LARDER_OCR_POLL_INTERVAL_SECS",
		"ocr.timeout_secs":       "LARDER_OCR_TIMEOUT_SECS",
		"filter.api_key":         "LARDER_FILTER_API_KEY",
		"filter.model":           "LARDER_FILTER_MODEL",
		"filter.temperature":     "LARDER_FILTER_TEMPERATURE",
		"filter.on_error":        "LARDER_FILTER_ON_ERROR",
		"filter.max_retries":     "LARDER_FILTER_MAX_RETRIES",
		"filter.timeout_secs":    "LARDER_FILTER_TIMEOUT_SECS",
		"cors.allowed_origins":   "LARDER_CORS_ALLOWED_ORIGINS",
		"email.provider":         "LARDER_EMAIL_PROVIDER",
		"email.region":           "LARDER_EMAIL_REGION",
		"email.from_address":     "LARDER_EMAIL_FROM_ADDRESS",
		"email.from_name":        "LARDER_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LARDER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LARDER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.OCR = OCRConfig{
		Provider:         v.GetString("ocr.provider"),
		Endpoint:         v.GetString("ocr.endpoint"),
		APIKey:           v.GetString("ocr.api_key"),
		ModelID:          v.GetString("ocr.model_id"),
		PollIntervalSecs: v.GetInt("ocr.poll_interval_secs"),
		TimeoutSecs:      v.GetInt("ocr.timeout_secs"),
	}
	cfg.Filter = FilterConfig{
		APIKey:      v.GetString("filter.api_key"),
		Model:       v.GetString("filter.model"),
		Temperature: v.GetFloat64("filter.temperature"),
		OnError:     v.GetString("filter.on_error"),
		MaxRetries:  v.GetInt("filter.max_retries"),
		TimeoutSecs: v.GetInt("filter.timeout_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	return cfg, nil
}

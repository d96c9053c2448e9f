package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/segyhp/pension-verification/internal/mailer"
	"github.com/segyhp/pension-verification/internal/ratelimit"
	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/utils"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	RateLimit RateLimitConfig `mapstructure:",squash"`
	Storage   StorageConfig   `mapstructure:",squash"`
	FaceMatch FaceMatchConfig `mapstructure:",squash"`
	SMTP      SMTPConfig      `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port            string `mapstructure:"SERVER_PORT"`
	Host            string `mapstructure:"SERVER_HOST"`
	Env             string `mapstructure:"ENV"`
	ReadTimeout     string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout    string `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     string `mapstructure:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout string `mapstructure:"SHUTDOWN_TIMEOUT"`
	CORSOrigins     string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MaxUploadBytes  int64  `mapstructure:"MAX_UPLOAD_BYTES"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	Host         string `mapstructure:"DATABASE_HOST"`
	Port         string `mapstructure:"DATABASE_PORT"`
	Name         string `mapstructure:"DATABASE_NAME"`
	User         string `mapstructure:"DATABASE_USER"`
	Password     string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode      string `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	URL      string `mapstructure:"REDIS_URL"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type AuthConfig struct {
	JWTSecret              string `mapstructure:"JWT_SECRET"`
	JWTIssuer              string `mapstructure:"JWT_ISSUER"`
	JWTTTL                 string `mapstructure:"JWT_TTL"`
	BootstrapAdminEmail    string `mapstructure:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `mapstructure:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type RateLimitConfig struct {
	Enabled        bool   `mapstructure:"RATE_LIMIT_ENABLED"`
	APIPerMinute   int    `mapstructure:"RATE_LIMIT_API_PER_MINUTE"`
	LoginPerMinute int    `mapstructure:"RATE_LIMIT_LOGIN_PER_MINUTE"`
	TrustedProxies string `mapstructure:"RATE_LIMIT_TRUSTED_PROXIES"` // comma-separated CIDRs or IPs
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"S3_ENDPOINT"`
	AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	SecretKey string `mapstructure:"S3_SECRET_KEY"`
	Bucket    string `mapstructure:"S3_BUCKET"`
	Region    string `mapstructure:"S3_REGION"`
	UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	Versioned bool   `mapstructure:"S3_VERSIONED"`
}

type FaceMatchConfig struct {
	Enabled bool   `mapstructure:"FACE_MATCH_ENABLED"`
	URL     string `mapstructure:"FACE_MATCH_URL"`
	APIKey  string `mapstructure:"FACE_MATCH_API_KEY"`
	Timeout string `mapstructure:"FACE_MATCH_TIMEOUT"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"SMTP_HOST"`
	Port     int    `mapstructure:"SMTP_PORT"`
	Username string `mapstructure:"SMTP_USERNAME"`
	Password string `mapstructure:"SMTP_PASSWORD"`
	From     string `mapstructure:"SMTP_FROM"`
}

type SchedulerConfig struct {
	ReminderCron string `mapstructure:"REMINDER_CRON"`
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
	MetricsAddr  string `mapstructure:"SCHEDULER_METRICS_ADDR"` // empty disables /metrics
}

type LoggingConfig struct {
	Level      string `mapstructure:"LOG_LEVEL"`
	Format     string `mapstructure:"LOG_FORMAT"`
	Output     string `mapstructure:"LOG_OUTPUT"`
	FilePath   string `mapstructure:"LOG_FILE_PATH"`
	MaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`
}

type BusinessConfig struct {
	CurrencyLocale string `mapstructure:"CURRENCY_LOCALE"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":                 "8080",
	"SERVER_HOST":                 "0.0.0.0",
	"ENV":                         "development",
	"SERVER_READ_TIMEOUT":         "15s",
	"SERVER_WRITE_TIMEOUT":        "30s",
	"SERVER_IDLE_TIMEOUT":         "60s",
	"SHUTDOWN_TIMEOUT":            "30s",
	"CORS_ALLOWED_ORIGINS":        "*",
	"MAX_UPLOAD_BYTES":            10 << 20,
	"DATABASE_URL":                "",
	"DATABASE_HOST":               "localhost",
	"DATABASE_PORT":               "5432",
	"DATABASE_NAME":               "pension_verification",
	"DATABASE_USER":               "postgres",
	"DATABASE_PASSWORD":           "",
	"DATABASE_SSLMODE":            "disable",
	"DATABASE_MAX_OPEN_CONNS":     25,
	"DATABASE_MAX_IDLE_CONNS":     5,
	"REDIS_URL":                   "",
	"REDIS_HOST":                  "localhost",
	"REDIS_PORT":                  "6379",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"JWT_SECRET":                  "",
	"JWT_ISSUER":                  "pension-verification",
	"JWT_TTL":                     "12h",
	"BOOTSTRAP_ADMIN_EMAIL":       "",
	"BOOTSTRAP_ADMIN_PASSWORD":    "",
	"RATE_LIMIT_ENABLED":          true,
	"RATE_LIMIT_API_PER_MINUTE":   120,
	"RATE_LIMIT_LOGIN_PER_MINUTE": 10,
	"RATE_LIMIT_TRUSTED_PROXIES":  "",
	"S3_ENDPOINT":                 "localhost:9000",
	"S3_ACCESS_KEY":               "",
	"S3_SECRET_KEY":               "",
	"S3_BUCKET":                   "pension-documents",
	"S3_REGION":                   "us-east-1",
	"S3_USE_SSL":                  false,
	"S3_VERSIONED":                false,
	"FACE_MATCH_ENABLED":          false,
	"FACE_MATCH_URL":              "",
	"FACE_MATCH_API_KEY":          "",
	"FACE_MATCH_TIMEOUT":          "10s",
	"SMTP_HOST":                   "",
	"SMTP_PORT":                   587,
	"SMTP_USERNAME":               "",
	"SMTP_PASSWORD":               "",
	"SMTP_FROM":                   "noreply@pensions.local",
	"REMINDER_CRON":               "0 8 * * *",
	"SCHEDULER_TIMEZONE":          "Africa/Lagos",
	"SCHEDULER_METRICS_ADDR":      ":9091",
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
	"LOG_OUTPUT":                  "stdout",
	"LOG_FILE_PATH":               "logs/app.log",
	"LOG_MAX_SIZE_MB":             100,
	"LOG_MAX_BACKUPS":             5,
	"LOG_MAX_AGE_DAYS":            30,
	"CURRENCY_LOCALE":             utils.DefaultLocale,
	"HEALTH_CHECK_TIMEOUT":        "5s",
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// .env files only fill variables that are not already set
	for _, file := range []string{".env", "deployments/.env"} {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return nil, fmt.Errorf("loading %s: %w", file, err)
			}
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Read from environment variables
	v.AutomaticEnv()

	// Optional config file using the same keys
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be greater than 0")
	}

	if c.RateLimit.Enabled && (c.RateLimit.APIPerMinute <= 0 || c.RateLimit.LoginPerMinute <= 0) {
		return fmt.Errorf("rate limits must be greater than 0 when RATE_LIMIT_ENABLED is set")
	}

	if _, err := c.GetTrustedProxies(); err != nil {
		return fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: %w", err)
	}

	if c.FaceMatch.Enabled && c.FaceMatch.URL == "" {
		return fmt.Errorf("FACE_MATCH_URL is required when FACE_MATCH_ENABLED is set")
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}

	durations := map[string]string{
		"SERVER_READ_TIMEOUT":  c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": c.Server.WriteTimeout,
		"SERVER_IDLE_TIMEOUT":  c.Server.IdleTimeout,
		"SHUTDOWN_TIMEOUT":     c.Server.ShutdownTimeout,
		"JWT_TTL":              c.Auth.JWTTTL,
		"FACE_MATCH_TIMEOUT":   c.FaceMatch.Timeout,
		"HEALTH_CHECK_TIMEOUT": c.Health.Timeout,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
	}

	// Validate reminder schedule
	if _, err := cron.ParseStandard(c.Scheduler.ReminderCron); err != nil {
		return fmt.Errorf("REMINDER_CRON must be a valid cron expression: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid time zone: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// DSN returns DATABASE_URL or a postgres URL built from the individual settings
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

// RedisAddr returns host:port of the Redis server
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// GetCORSOrigins splits CORS_ALLOWED_ORIGINS on commas
func (c *Config) GetCORSOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// GetTrustedProxies parses RATE_LIMIT_TRUSTED_PROXIES. An empty list trusts
// no proxy, so clients are keyed by their connection address.
func (c *Config) GetTrustedProxies() (*ratelimit.TrustedProxies, error) {
	return ratelimit.ParseTrustedProxies(strings.Split(c.RateLimit.TrustedProxies, ","))
}

// GetJWTTTL returns the access token lifetime
func (c *Config) GetJWTTTL() time.Duration {
	return mustDuration(c.Auth.JWTTTL)
}

// GetFaceMatchTimeout returns the face match request timeout
func (c *Config) GetFaceMatchTimeout() time.Duration {
	return mustDuration(c.FaceMatch.Timeout)
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	return mustDuration(c.Health.Timeout)
}

// GetShutdownTimeout returns the graceful shutdown budget
func (c *Config) GetShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout)
}

// GetServerTimeouts returns the read, write and idle timeouts
func (c *Config) GetServerTimeouts() (read, write, idle time.Duration) {
	return mustDuration(c.Server.ReadTimeout), mustDuration(c.Server.WriteTimeout), mustDuration(c.Server.IdleTimeout)
}

// GetSchedulerLocation returns the scheduler time zone
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// mustDuration parses a value already checked by Validate
func mustDuration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}

// LoggerConfig adapts the LOG_* settings for logger.Init
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		Output:     c.Logging.Output,
		FilePath:   c.Logging.FilePath,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
	}
}

// MailerConfig adapts the SMTP_* settings for mailer.New
func (c *Config) MailerConfig() mailer.Config {
	return mailer.Config{
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
	}
}

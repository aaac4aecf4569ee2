package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Email    EmailConfig    `mapstructure:"email"`
	Source   SourceConfig   `mapstructure:"source"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	// Enabled connects to PostgreSQL for stored message bodies
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL returns the PostgreSQL connection URL used by migrations
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	// Enabled connects to Redis for keyed message bodies and rate limiting
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EmailConfig holds email sending configuration
type EmailConfig struct {
	// Provider is the transport to use: "noop", "smtp", "gmail" or "resend".
	// "noop" composes the message and logs it without delivering.
	Provider string `mapstructure:"provider"`
	// From is the sender address
	From string `mapstructure:"from"`
	// FromName is the display name for the sender
	FromName string `mapstructure:"from_name"`
	// To is the recipient address
	To string `mapstructure:"to"`
	// Subject is the subject line of every dispatched message
	Subject string `mapstructure:"subject"`

	SMTP   SMTPEmailConfig   `mapstructure:"smtp"`
	Gmail  GmailEmailConfig  `mapstructure:"gmail"`
	Resend ResendEmailConfig `mapstructure:"resend"`
}

// SMTPEmailConfig holds SMTP relay configuration
type SMTPEmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// GmailEmailConfig holds Gmail API configuration
type GmailEmailConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID string `mapstructure:"client_id"`
	// ClientSecret for OAuth2 token-based auth
	ClientSecret string `mapstructure:"client_secret"`
	// RefreshToken for OAuth2 token-based auth
	RefreshToken string `mapstructure:"refresh_token"`
}

// ResendEmailConfig holds Resend API configuration
type ResendEmailConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// SourceConfig holds message source configuration
type SourceConfig struct {
	// ConnectionString is handed to the database source when none is given
	ConnectionString string `mapstructure:"connection_string"`
	// RedisPrefix is prepended to keys read by the redis source
	RedisPrefix string `mapstructure:"redis_prefix"`
	// FilesDir confines file sources requested over HTTP. Empty disables
	// them on the API; the CLI reads any path.
	FilesDir string `mapstructure:"files_dir"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting"`
	// TrustedProxies lists proxy addresses or CIDR ranges whose
	// X-Forwarded-For header is honoured
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// RateLimitingConfig holds rate limiting configuration
type RateLimitingConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// Load reads configuration from the default search paths and environment variables
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from the given file, or from the default
// search paths when path is empty, and applies environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mailrelay")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("MAILRELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "mailrelay")
	v.SetDefault("database.user", "mailrelay")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.from", "system@example.com")
	v.SetDefault("email.from_name", "")
	v.SetDefault("email.to", "admin@example.com")
	v.SetDefault("email.subject", "Log file")
	v.SetDefault("email.smtp.host", "mail.example.com")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.gmail.credentials_json", "")
	v.SetDefault("email.gmail.client_id", "")
	v.SetDefault("email.gmail.client_secret", "")
	v.SetDefault("email.gmail.refresh_token", "")
	v.SetDefault("email.resend.api_key", "")

	// Source defaults
	v.SetDefault("source.connection_string", "server=myserver;database=data")
	v.SetDefault("source.redis_prefix", "mailrelay:body:")
	v.SetDefault("source.files_dir", "")

	// Rate limiting defaults
	v.SetDefault("security.rate_limiting.enabled", true)
	v.SetDefault("security.rate_limiting.limit", 30)
	v.SetDefault("security.rate_limiting.window", "1m")
}

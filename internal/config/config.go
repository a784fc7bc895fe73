package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost      int    `mapstructure:"bcrypt_cost"`
	EncryptionKey   string `mapstructure:"encryption_key"`
	MaxFailedLogins int    `mapstructure:"max_failed_logins"`
	LockMinutes     int    `mapstructure:"lock_minutes"`
	AdminEmail      string `mapstructure:"admin_email"`
	AdminPassword   string `mapstructure:"admin_password"`
	GuestAccountID  string `mapstructure:"guest_account_id"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RevocationConfig selects where revoked login sessions are tracked: "db" or "redis".
type RevocationConfig struct {
	Backend string `mapstructure:"backend"`
}

type MailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	FromEmail    string `mapstructure:"from_email"`
	FromName     string `mapstructure:"from_name"`
	ContactTo    string `mapstructure:"contact_to"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// ClientConfig configures the medistorectl client application.
type ClientConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	SessionFile     string        `mapstructure:"session_file"`
	DashboardPrefix string        `mapstructure:"dashboard_prefix"`
	LoginPath       string        `mapstructure:"login_path"`
	LoginTimeout    time.Duration `mapstructure:"login_timeout"`
	VerifyTimeout   time.Duration `mapstructure:"verify_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type AppSubConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Security   SecurityConfig   `mapstructure:"security"`
	Log        LogConfig        `mapstructure:"log"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Revocation RevocationConfig `mapstructure:"revocation"`
	Mail       MailConfig       `mapstructure:"mail"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Client     ClientConfig     `mapstructure:"client"`
	App        AppSubConfig     `mapstructure:"app"`
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml") once per process.
// If path is empty, "config.yaml" in the working directory is used when present.
func Load(path string) (*Config, error) {
	once.Do(func() {
		appConfig, loadErr = Parse(path)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}

// Parse builds a fresh Config from defaults, an optional config file, .env and
// EMS_* environment variables.
func Parse(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. EMS_SERVER_PORT=9000
	v.SetEnvPrefix("EMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// running on defaults + env is fine when no explicit file was asked for
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// setDefaults registers every key. Unmarshal only sees keys viper knows
// about, so a key without a default could not be set from the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.path", "data/store.db")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "elite-medicale")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.max_failed_logins", 5)
	v.SetDefault("security.lock_minutes", 10)
	v.SetDefault("security.guest_account_id", "guest")
	v.SetDefault("security.encryption_key", "")
	v.SetDefault("security.admin_email", "")
	v.SetDefault("security.admin_password", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("revocation.backend", "db")

	v.SetDefault("mail.resend_api_key", "")
	v.SetDefault("mail.from_email", "")
	v.SetDefault("mail.from_name", "Elite Médicale")
	v.SetDefault("mail.contact_to", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "medistore")

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.session_file", ".medistore/session.json")
	v.SetDefault("client.dashboard_prefix", "/dashboard")
	v.SetDefault("client.login_path", "/login")
	v.SetDefault("client.login_timeout", 15*time.Second)
	v.SetDefault("client.verify_timeout", 10*time.Second)
	v.SetDefault("client.request_timeout", 30*time.Second)

	v.SetDefault("app.page_size", 12)
}

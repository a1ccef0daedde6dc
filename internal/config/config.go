package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Supabase   SupabaseConfig   `mapstructure:"supabase"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Discount   DiscountConfig   `mapstructure:"discount"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required,oneof=local api scheduler"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

type StorageConfig struct {
	Provider types.StorageProvider `mapstructure:"provider" validate:"required,oneof=supabase postgres"`
	// MaxRetries bounds retries of transient transport failures
	MaxRetries uint64 `mapstructure:"max_retries"`
}

type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
	JWTSecret  string `mapstructure:"jwt_secret"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	MigrationsPath         string `mapstructure:"migrations_path"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type DiscountConfig struct {
	ClampFixedToSubtotal    bool  `mapstructure:"clamp_fixed_to_subtotal"`
	RestoreShippingOnRemove bool  `mapstructure:"restore_shipping_on_remove"`
	InclusiveEndDate        bool  `mapstructure:"inclusive_end_date"`
	CurrencyPrecision       int32 `mapstructure:"currency_precision" validate:"min=0,max=8"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// APIKeys maps an API key to the store it is allowed to act on
	APIKeys map[string]string `mapstructure:"api_keys"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

type SchedulerConfig struct {
	StatusSyncInterval time.Duration `mapstructure:"status_sync_interval"`
	// Stores lists the stores whose coupon statuses are synced in the background
	Stores []string `mapstructure:"stores"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("storage.provider", types.StorageProviderPostgres)
	v.SetDefault("storage.max_retries", 3)
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_key", "")
	v.SetDefault("supabase.jwt_secret", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "commerce")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("postgres.migrations_path", "migrations")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("discount.clamp_fixed_to_subtotal", false)
	v.SetDefault("discount.restore_shipping_on_remove", false)
	v.SetDefault("discount.inclusive_end_date", false)
	v.SetDefault("discount.currency_precision", 2)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", map[string]string{})
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("scheduler.status_sync_interval", time.Minute)
}

func NewConfig() (*Configuration, error) {
	// a missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ai-commerce")

	v.SetEnvPrefix("AICOMMERCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, ierr.WithError(err).
				WithHint("Failed to read config file").
				Mark(ierr.ErrSystem)
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrSystem)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid configuration").
			Mark(ierr.ErrValidation)
	}

	switch c.Storage.Provider {
	case types.StorageProviderSupabase:
		if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
			return ierr.NewError("supabase url and service key are required").
				WithHint("Set supabase.url and supabase.service_key when storage.provider is supabase").
				Mark(ierr.ErrValidation)
		}
	case types.StorageProviderPostgres:
		if c.Postgres.Host == "" || c.Postgres.DBName == "" {
			return ierr.NewError("postgres host and dbname are required").
				WithHint("Set postgres.host and postgres.dbname when storage.provider is postgres").
				Mark(ierr.ErrValidation)
		}
	}

	if c.Sentry.Enabled && c.Sentry.DSN == "" {
		return ierr.NewError("sentry dsn is required when sentry is enabled").
			WithHint("Set sentry.dsn or disable sentry").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Storage:    StorageConfig{Provider: types.StorageProviderPostgres, MaxRetries: 3},
		Postgres: PostgresConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			DBName:         "commerce",
			SSLMode:        "disable",
			MaxOpenConns:   10,
			MaxIdleConns:   5,
			MigrationsPath: "migrations",
		},
		Cache:     CacheConfig{Enabled: true, TTL: 5 * time.Minute},
		Discount:  DiscountConfig{CurrencyPrecision: 2},
		Auth:      AuthConfig{APIKeys: map[string]string{}},
		Sentry:    SentryConfig{Environment: "local", SampleRate: 1},
		Scheduler: SchedulerConfig{StatusSyncInterval: time.Minute},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// GetMigrationURL returns the DSN in the URL form golang-migrate expects
func (c PostgresConfig) GetMigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

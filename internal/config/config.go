package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	DTR      DTRConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// DTRConfig holds the tunable constants of the attendance pipeline.
type DTRConfig struct {
	DuplicateTolerance    time.Duration
	MatchProximity        time.Duration
	OverflowGrace         time.Duration
	EarlyWindow           time.Duration
	BreakInferenceMinSpan int
	DefaultBreakMinutes   int
	MaxRangeDays          int
}

// CronConfig controls the nightly recompute job.
type CronConfig struct {
	Enabled bool
	RunHour int
	Workers int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded, reading configuration from environment")
	}

	config := fromViper(newViper())

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "cmlabs-hris")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_EXPIRATION_TIME", "1h")

	defaults := attendance.DefaultPolicy()
	v.SetDefault("DTR_DUPLICATE_TOLERANCE", defaults.DuplicateTolerance)
	v.SetDefault("DTR_MATCH_PROXIMITY", defaults.MatchProximity)
	v.SetDefault("DTR_OVERFLOW_GRACE", defaults.OverflowGrace)
	v.SetDefault("DTR_EARLY_WINDOW", defaults.EarlyWindow)
	v.SetDefault("DTR_BREAK_INFERENCE_MIN_SPAN", defaults.BreakInferenceMinSpanMinutes)
	v.SetDefault("DTR_DEFAULT_BREAK_MINUTES", defaults.DefaultBreakMinutes)
	v.SetDefault("DTR_MAX_RANGE_DAYS", defaults.MaxRangeDays)

	v.SetDefault("CRON_ENABLED", true)
	v.SetDefault("CRON_RUN_HOUR", 1)
	v.SetDefault("CRON_WORKERS", 4)

	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:           v.GetString("JWT_SECRET_KEY"),
			AccessExpiration: v.GetString("JWT_ACCESS_EXPIRATION_TIME"),
		},
		App: AppConfig{
			Port:           v.GetInt("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: v.GetStringSlice("ALLOWED_ORIGINS"),
		},
		DTR: DTRConfig{
			DuplicateTolerance:    v.GetDuration("DTR_DUPLICATE_TOLERANCE"),
			MatchProximity:        v.GetDuration("DTR_MATCH_PROXIMITY"),
			OverflowGrace:         v.GetDuration("DTR_OVERFLOW_GRACE"),
			EarlyWindow:           v.GetDuration("DTR_EARLY_WINDOW"),
			BreakInferenceMinSpan: v.GetInt("DTR_BREAK_INFERENCE_MIN_SPAN"),
			DefaultBreakMinutes:   v.GetInt("DTR_DEFAULT_BREAK_MINUTES"),
			MaxRangeDays:          v.GetInt("DTR_MAX_RANGE_DAYS"),
		},
		Cron: CronConfig{
			Enabled: v.GetBool("CRON_ENABLED"),
			RunHour: v.GetInt("CRON_RUN_HOUR"),
			Workers: v.GetInt("CRON_WORKERS"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.DTR.DuplicateTolerance < 0 {
		return fmt.Errorf("DTR_DUPLICATE_TOLERANCE must not be negative")
	}
	if c.DTR.MatchProximity <= 0 || c.DTR.OverflowGrace <= 0 || c.DTR.EarlyWindow <= 0 {
		return fmt.Errorf("DTR_MATCH_PROXIMITY, DTR_OVERFLOW_GRACE and DTR_EARLY_WINDOW must be positive")
	}
	if c.DTR.BreakInferenceMinSpan <= 0 || c.DTR.DefaultBreakMinutes < 0 {
		return fmt.Errorf("invalid break inference settings")
	}
	if c.DTR.MaxRangeDays <= 0 {
		return fmt.Errorf("DTR_MAX_RANGE_DAYS must be positive")
	}
	if c.Cron.RunHour < 0 || c.Cron.RunHour > 23 {
		return fmt.Errorf("CRON_RUN_HOUR must be between 0 and 23")
	}
	if c.Cron.Workers <= 0 {
		return fmt.Errorf("CRON_WORKERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Policy maps the DTR settings onto the attendance pipeline policy.
func (c *Config) Policy() attendance.Policy {
	return attendance.Policy{
		DuplicateTolerance:           c.DTR.DuplicateTolerance,
		MatchProximity:               c.DTR.MatchProximity,
		OverflowGrace:                c.DTR.OverflowGrace,
		EarlyWindow:                  c.DTR.EarlyWindow,
		BreakInferenceMinSpanMinutes: c.DTR.BreakInferenceMinSpan,
		DefaultBreakMinutes:          c.DTR.DefaultBreakMinutes,
		MaxRangeDays:                 c.DTR.MaxRangeDays,
	}
}

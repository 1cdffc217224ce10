package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// AuthSigningKey is the HS256 key used to verify bearer tokens.
	// Required outside development mode.
	AuthSigningKey string `mapstructure:"AUTH_SIGNING_KEY"`

	// Reminder engine knobs.
	RemindersEnabled    bool    `mapstructure:"REMINDERS_ENABLED"`
	ActionWindowHours   float64 `mapstructure:"ACTION_WINDOW_HOURS"`
	ReminderHorizonDays int     `mapstructure:"REMINDER_HORIZON_DAYS"`
	ReminderLeadMinutes int     `mapstructure:"REMINDER_LEAD_MINUTES"`

	// Medication name lookup service (optional).
	MedLookupURL       string `mapstructure:"MED_LOOKUP_URL"`
	MedLookupTimeoutMS int    `mapstructure:"MED_LOOKUP_TIMEOUT_MS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REMINDERS_ENABLED", true)
	v.SetDefault("ACTION_WINDOW_HOURS", 4.0)
	v.SetDefault("REMINDER_HORIZON_DAYS", 7)
	v.SetDefault("REMINDER_LEAD_MINUTES", 5)
	v.SetDefault("MED_LOOKUP_TIMEOUT_MS", 2000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_SIGNING_KEY")
	v.BindEnv("REMINDERS_ENABLED")
	v.BindEnv("ACTION_WINDOW_HOURS")
	v.BindEnv("REMINDER_HORIZON_DAYS")
	v.BindEnv("REMINDER_LEAD_MINUTES")
	v.BindEnv("MED_LOOKUP_URL")
	v.BindEnv("MED_LOOKUP_TIMEOUT_MS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// mode AUTH_SIGNING_KEY must be set so that real bearer-token authentication
// is enforced.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf(
			"AUTH_SIGNING_KEY must be set when ENV is %q. "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if c.ActionWindowHours < 0 {
		return fmt.Errorf("ACTION_WINDOW_HOURS must not be negative, got %v", c.ActionWindowHours)
	}
	if c.ReminderHorizonDays <= 0 {
		return fmt.Errorf("REMINDER_HORIZON_DAYS must be positive, got %d", c.ReminderHorizonDays)
	}
	if c.ReminderLeadMinutes < 0 {
		return fmt.Errorf("REMINDER_LEAD_MINUTES must not be negative, got %d", c.ReminderLeadMinutes)
	}
	return nil
}

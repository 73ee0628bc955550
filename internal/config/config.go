package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Engine behaviour.
	FlowVariant             string  `mapstructure:"FLOW_VARIANT"`
	RetainCancelled         bool    `mapstructure:"RETAIN_CANCELLED_INTERVENTIONS"`
	DefaultScenarioWeightKG float64 `mapstructure:"DEFAULT_SCENARIO_WEIGHT_KG"`
	AdvanceDelayMS          int     `mapstructure:"ADVANCE_DELAY_MS"`
	SessionCap              int     `mapstructure:"SESSION_CAP"`

	TLSEnabled  bool   `mapstructure:"TLS_ENABLED"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("FLOW_VARIANT", "abcde")
	v.SetDefault("RETAIN_CANCELLED_INTERVENTIONS", false)
	v.SetDefault("DEFAULT_SCENARIO_WEIGHT_KG", 4.5)
	v.SetDefault("ADVANCE_DELAY_MS", 600)
	v.SetDefault("SESSION_CAP", 1000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("FLOW_VARIANT")
	v.BindEnv("RETAIN_CANCELLED_INTERVENTIONS")
	v.BindEnv("DEFAULT_SCENARIO_WEIGHT_KG")
	v.BindEnv("ADVANCE_DELAY_MS")
	v.BindEnv("SESSION_CAP")
	v.BindEnv("TLS_ENABLED")
	v.BindEnv("TLS_CERT_FILE")
	v.BindEnv("TLS_KEY_FILE")

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

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.FlowVariant != "abcde" && c.FlowVariant != "branching" {
		return fmt.Errorf("FLOW_VARIANT must be \"abcde\" or \"branching\", got %q", c.FlowVariant)
	}
	if c.DefaultScenarioWeightKG <= 0 {
		return fmt.Errorf("DEFAULT_SCENARIO_WEIGHT_KG must be positive, got %g", c.DefaultScenarioWeightKG)
	}
	if c.AdvanceDelayMS < 0 {
		return fmt.Errorf("ADVANCE_DELAY_MS must not be negative, got %d", c.AdvanceDelayMS)
	}
	if c.SessionCap <= 0 {
		return fmt.Errorf("SESSION_CAP must be positive, got %d", c.SessionCap)
	}

	if c.TLSEnabled {
		if c.TLSCertFile == "" {
			return fmt.Errorf("TLS_CERT_FILE is required when TLS_ENABLED is true")
		}
		if c.TLSKeyFile == "" {
			return fmt.Errorf("TLS_KEY_FILE is required when TLS_ENABLED is true")
		}
	}

	return nil
}

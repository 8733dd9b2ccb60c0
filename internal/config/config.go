package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Service names accepted by the serve and migrate commands.
const (
	ServicePatient = "patient"
	ServiceMedecin = "medecin"
	ServiceRdv     = "rdv"
)

var supportedLocales = map[string]bool{"fr": true, "en": true}

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBSchema          string        `mapstructure:"DB_SCHEMA"`
	DBMaxConns        int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	AuthSigningKey    string        `mapstructure:"AUTH_SIGNING_KEY"`
	AuthIssuer        string        `mapstructure:"AUTH_ISSUER"`
	AuthAudience      string        `mapstructure:"AUTH_AUDIENCE"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit         string        `mapstructure:"BODY_LIMIT"`
	DefaultLocale     string        `mapstructure:"DEFAULT_LOCALE"`
	PatientServiceURL string        `mapstructure:"PATIENT_SERVICE_URL"`
	MedecinServiceURL string        `mapstructure:"MEDECIN_SERVICE_URL"`
	ProxyTargetURL    string        `mapstructure:"PROXY_TARGET_URL"`
	ClientTimeout     time.Duration `mapstructure:"CLIENT_TIMEOUT"`
}

var envKeys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_SCHEMA", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"REDIS_URL", "CORS_ORIGINS", "AUTH_SIGNING_KEY", "AUTH_ISSUER", "AUTH_AUDIENCE",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BODY_LIMIT", "DEFAULT_LOCALE",
	"PATIENT_SERVICE_URL", "MEDECIN_SERVICE_URL", "PROXY_TARGET_URL", "CLIENT_TIMEOUT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("DEFAULT_LOCALE", "fr")
	v.SetDefault("PATIENT_SERVICE_URL", "http://localhost:8001")
	v.SetDefault("MEDECIN_SERVICE_URL", "http://localhost:8002")
	v.SetDefault("PROXY_TARGET_URL", "https://extensions.aitopia.ai")
	v.SetDefault("CLIENT_TIMEOUT", "10s")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// A missing .env file is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	cfg.DefaultLocale = strings.ToLower(cfg.DefaultLocale)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: running in DEVELOPMENT mode (ENV=development): all requests get admin access.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SchemaFor returns the Postgres schema owned by the given service. DB_SCHEMA
// overrides the default, which is the service name itself.
func (c *Config) SchemaFor(service string) string {
	if c.DBSchema != "" {
		return c.DBSchema
	}
	return service
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required when ENV=%q", c.Env)
	}
	if !supportedLocales[c.DefaultLocale] {
		return fmt.Errorf("DEFAULT_LOCALE must be \"fr\" or \"en\", got %q", c.DefaultLocale)
	}
	if c.ClientTimeout <= 0 {
		return fmt.Errorf("CLIENT_TIMEOUT must be positive, got %s", c.ClientTimeout)
	}
	return nil
}

// ValidService reports whether name is one of the known services.
func ValidService(name string) bool {
	switch name {
	case ServicePatient, ServiceMedecin, ServiceRdv:
		return true
	}
	return false
}

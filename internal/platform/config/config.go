package config

import (
	"log"
	"strings"

	"github.com/SscSPs/bank_reconciliation/internal/core/matching"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	MigrationsPath     string
	JWTSecret          string
	CORSAllowedOrigins []string
	PosthogAPIKey      string
	PosthogEndpoint    string
	UploadRateLimit    string // limiter formatted rate, e.g. "30-M"
	MaxUploadBytes     int64

	// Matching policy
	AmountTolerance         decimal.Decimal
	DateToleranceDays       int
	ConsiderationMultiplier int64
	AutoMatchThreshold      float64
	AmbiguityMargin         float64
	MaxCandidates           int
	CandidateWindowDays     int
	BalanceEpsilon          decimal.Decimal
	DateLocale              dateparse.Locale
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return fromViper(viper.GetViper()), nil
}

func setDefaults(v *viper.Viper) {
	def := matching.DefaultConfig()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("UPLOAD_RATE_LIMIT", "30-M")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("RECON_AMOUNT_TOLERANCE", def.AmountTolerance.String())
	v.SetDefault("RECON_DATE_TOLERANCE_DAYS", def.DateToleranceDays)
	v.SetDefault("RECON_CONSIDERATION_MULTIPLIER", def.ConsiderationMultiplier)
	v.SetDefault("RECON_AUTO_MATCH_THRESHOLD", def.AutoMatchThreshold)
	v.SetDefault("RECON_AMBIGUITY_MARGIN", def.AmbiguityMargin)
	v.SetDefault("RECON_MAX_CANDIDATES", def.MaxCandidates)
	v.SetDefault("RECON_CANDIDATE_WINDOW_DAYS", def.CandidateWindowDays)
	v.SetDefault("RECON_BALANCE_EPSILON", "0.005")
	v.SetDefault("RECON_DATE_LOCALE", "")
}

// fromViper reads every key, falling back to the default on invalid values.
func fromViper(v *viper.Viper) *Config {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:             v.GetString("PGSQL_URL"),
		Port:                    v.GetString("PORT"),
		IsProduction:            v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:           v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:          v.GetString("MIGRATIONS_PATH"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		PosthogAPIKey:           v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:         v.GetString("POSTHOG_ENDPOINT"),
		UploadRateLimit:         v.GetString("UPLOAD_RATE_LIMIT"),
		MaxUploadBytes:          v.GetInt64("MAX_UPLOAD_BYTES"),
		DateToleranceDays:       v.GetInt("RECON_DATE_TOLERANCE_DAYS"),
		ConsiderationMultiplier: v.GetInt64("RECON_CONSIDERATION_MULTIPLIER"),
		AutoMatchThreshold:      v.GetFloat64("RECON_AUTO_MATCH_THRESHOLD"),
		AmbiguityMargin:         v.GetFloat64("RECON_AMBIGUITY_MARGIN"),
		MaxCandidates:           v.GetInt("RECON_MAX_CANDIDATES"),
		CandidateWindowDays:     v.GetInt("RECON_CANDIDATE_WINDOW_DAYS"),
		DateLocale:              dateparse.ParseLocale(v.GetString("RECON_DATE_LOCALE")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if _, err := limiter.NewRateFromFormatted(cfg.UploadRateLimit); err != nil {
		log.Printf("Warning: Invalid value for UPLOAD_RATE_LIMIT ('%s'). Defaulting to 30-M.\n", cfg.UploadRateLimit)
		cfg.UploadRateLimit = "30-M"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}

	def := matching.DefaultConfig()
	cfg.AmountTolerance = decimalOr(v.GetString("RECON_AMOUNT_TOLERANCE"), "RECON_AMOUNT_TOLERANCE", def.AmountTolerance)
	cfg.BalanceEpsilon = decimalOr(v.GetString("RECON_BALANCE_EPSILON"), "RECON_BALANCE_EPSILON", decimal.NewFromFloat(0.005))

	if err := cfg.MatchingConfig().Validate(); err != nil {
		log.Printf("Warning: invalid matching policy (%v). Using defaults.\n", err)
		cfg.AmountTolerance = def.AmountTolerance
		cfg.DateToleranceDays = def.DateToleranceDays
		cfg.ConsiderationMultiplier = def.ConsiderationMultiplier
		cfg.AutoMatchThreshold = def.AutoMatchThreshold
		cfg.AmbiguityMargin = def.AmbiguityMargin
		cfg.MaxCandidates = def.MaxCandidates
		cfg.CandidateWindowDays = def.CandidateWindowDays
	}

	return cfg
}

func decimalOr(raw, key string, fallback decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}

// MatchingConfig converts the matching policy keys.
func (c *Config) MatchingConfig() matching.Config {
	return matching.Config{
		AmountTolerance:         c.AmountTolerance,
		DateToleranceDays:       c.DateToleranceDays,
		ConsiderationMultiplier: c.ConsiderationMultiplier,
		AutoMatchThreshold:      c.AutoMatchThreshold,
		AmbiguityMargin:         c.AmbiguityMargin,
		MaxCandidates:           c.MaxCandidates,
		CandidateWindowDays:     c.CandidateWindowDays,
	}
}

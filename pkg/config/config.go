package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: all environment variables are read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Auth
	Auth AuthConfig

	// External LLM providers
	LLM LLMConfig

	// Stock projection thresholds
	Stock StockConfig

	// Forecast pipeline
	Forecast ForecastConfig

	// Robot telemetry
	Telemetry TelemetryConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// AuthConfig holds token and bootstrap-account settings
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminLogin    string
	AdminPassword string
}

// ProviderConfig describes one OpenAI-compatible chat completion endpoint
type ProviderConfig struct {
	Name   string
	URL    string
	Model  string
	APIKey string // empty means the provider is skipped
}

// LLMConfig holds the provider chain settings
type LLMConfig struct {
	Providers         []ProviderConfig // priority order
	ProvidersFile     string
	Timeout           time.Duration
	MaxTokens         int
	RequestsPerMinute int
}

// StockConfig holds the classification thresholds for the product projection
type StockConfig struct {
	IdealQuantity    int64
	CriticalQuantity int64
}

// ForecastConfig holds forecast orchestrator settings
type ForecastConfig struct {
	RecentWindow  int
	FallbackLimit int
}

// TelemetryConfig holds robot ingestion settings
type TelemetryConfig struct {
	RobotAPIKey string
	RateLimit   int
	RateWindow  time.Duration
}

// Default provider endpoints, tried in this order
const (
	GroqURL       = "https://api.groq.com/openai/v1/chat/completions"
	GroqModel     = "llama-3.3-70b-versatile"
	DeepSeekURL   = "https://api.deepseek.com/v1/chat/completions"
	DeepSeekModel = "deepseek-chat"
)

// Load reads configuration from environment variables
// ⭐ SSOT: the only function calling os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "10000"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTL:      getEnvAsDuration("AUTH_TOKEN_TTL", "24h"),
			AdminLogin:    getEnv("ADMIN_LOGIN", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},

		LLM: LLMConfig{
			Providers: []ProviderConfig{
				{
					Name:   "groq",
					URL:    getEnv("GROQ_URL", GroqURL),
					Model:  getEnv("GROQ_MODEL", GroqModel),
					APIKey: getEnv("GROQ_API_KEY", ""),
				},
				{
					Name:   "deepseek",
					URL:    getEnv("DEEPSEEK_URL", DeepSeekURL),
					Model:  getEnv("DEEPSEEK_MODEL", DeepSeekModel),
					APIKey: getEnv("DEEPSEEK_API_KEY", ""),
				},
			},
			ProvidersFile:     getEnv("LLM_PROVIDERS_FILE", ""),
			Timeout:           getEnvAsDuration("LLM_TIMEOUT", "60s"),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 800),
			RequestsPerMinute: getEnvAsInt("LLM_REQUESTS_PER_MINUTE", 30),
		},

		Stock: StockConfig{
			IdealQuantity:    int64(getEnvAsInt("STOCK_IDEAL_QUANTITY", 8750)),
			CriticalQuantity: int64(getEnvAsInt("STOCK_CRITICAL_QUANTITY", 3900)),
		},

		Forecast: ForecastConfig{
			RecentWindow:  getEnvAsInt("FORECAST_RECENT_WINDOW", 50),
			FallbackLimit: getEnvAsInt("FORECAST_FALLBACK_LIMIT", 5),
		},

		Telemetry: TelemetryConfig{
			RobotAPIKey: getEnv("ROBOT_API_KEY", ""),
			RateLimit:   getEnvAsInt("TELEMETRY_RATE_LIMIT", 120),
			RateWindow:  getEnvAsDuration("TELEMETRY_RATE_WINDOW", "1m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Provider file replaces the env-defined chain
	if cfg.LLM.ProvidersFile != "" {
		providers, err := LoadProviders(cfg.LLM.ProvidersFile)
		if err != nil {
			return nil, fmt.Errorf("load providers file: %w", err)
		}
		cfg.LLM.Providers = providers
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Env != "development" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters outside development")
	}

	if c.Stock.CriticalQuantity >= c.Stock.IdealQuantity {
		return fmt.Errorf("STOCK_CRITICAL_QUANTITY (%d) must be below STOCK_IDEAL_QUANTITY (%d)",
			c.Stock.CriticalQuantity, c.Stock.IdealQuantity)
	}

	if c.Forecast.RecentWindow <= 0 {
		return fmt.Errorf("FORECAST_RECENT_WINDOW must be positive")
	}

	return nil
}

// IsDevelopment reports whether the service runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Helper functions (private, only used within this package)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/Annany2002/nebula-canvas/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

const placeholderSecret = "!!replace_this_with_a_real_secret_key!!"

// Config holds application configuration values
type Config struct {
	ServerPort         string `env:"SERVER_PORT" env-default:":8080"`
	JWTSecret          string `env:"JWT_SECRET"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS" env-default:"24"`
	DatabaseDir        string `env:"DATABASE_DIRECTORY" env-default:"data"`
	DatabaseFile       string `env:"DATABASE_FILE" env-default:"canvas.db"`
	CORSOrigins        string `env:"CORS_ORIGINS" env-default:"http://localhost:3000"`

	LLM LLMConfig

	AIRateLimit  int           `env:"AI_RATE_LIMIT" env-default:"20"`
	AIRateWindow time.Duration `env:"AI_RATE_WINDOW" env-default:"60s"`

	HistoryMaxSteps   int    `env:"HISTORY_MAX_STEPS" env-default:"10"`
	PresetCatalogFile string `env:"PRESET_CATALOG_FILE"`

	Shows ShowsConfig

	JWTExpiration time.Duration
}

// ShowsConfig locates the public show catalogue backing /api/data.
type ShowsConfig struct {
	APIURL   string        `env:"SHOWS_API_URL" env-default:"https://api.tvmaze.com/shows"`
	Pages    int           `env:"SHOWS_API_PAGES" env-default:"1"`
	CacheTTL time.Duration `env:"SHOWS_CACHE_TTL" env-default:"0s"`
	Timeout  time.Duration `env:"SHOWS_TIMEOUT" env-default:"10s"`
}

// LLMConfig points the translator at an OpenAI-compatible endpoint.
type LLMConfig struct {
	Endpoint    string        `env:"LLM_ENDPOINT" env-default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model       string        `env:"LLM_MODEL" env-default:"gemini-2.0-flash-lite"`
	APIKey      string        `env:"LLM_API_KEY"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" env-default:"10s"`
	Temperature float32       `env:"LLM_TEMPERATURE" env-default:"0.2"`
	MaxTokens   int           `env:"LLM_MAX_TOKENS" env-default:"1024"`
}

// IsAvailable reports whether enough is configured to call the model.
func (c LLMConfig) IsAvailable() bool {
	return c.Endpoint != "" && c.Model != "" && c.APIKey != ""
}

// DatabasePath joins the database directory and file name.
func (c *Config) DatabasePath() string {
	return strings.TrimRight(c.DatabaseDir, "/") + "/" + c.DatabaseFile
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, JWT Exp: %v, Model: %s", cfg.ServerPort, cfg.JWTExpiration, cfg.LLM.Model)
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable must be set")
	}
	if c.JWTSecret == placeholderSecret {
		customLog.Warnln("WARNING: JWT_SECRET is set to the default placeholder!")
	}

	if c.JWTExpirationHours <= 0 {
		customLog.Warnf("Invalid JWT_EXPIRATION_HOURS '%d'. Using default 24h.", c.JWTExpirationHours)
		c.JWTExpirationHours = 24
	}
	c.JWTExpiration = time.Hour * time.Duration(c.JWTExpirationHours)

	if c.HistoryMaxSteps < 1 {
		customLog.Warnf("Invalid HISTORY_MAX_STEPS '%d'. Using default 10.", c.HistoryMaxSteps)
		c.HistoryMaxSteps = 10
	}
	if c.AIRateLimit < 1 || c.AIRateWindow <= 0 {
		return fmt.Errorf("AI_RATE_LIMIT and AI_RATE_WINDOW must be positive, got %d per %v", c.AIRateLimit, c.AIRateWindow)
	}
	if c.Shows.Pages < 1 {
		c.Shows.Pages = 1
	}
	if !c.LLM.IsAvailable() {
		customLog.Warnln("LLM_API_KEY is not set; /api/ai will return no commands")
	}
	return nil
}

package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, falling back to system environment variables")
	}
}

// Config holds engine configuration sourced from the environment.
type Config struct {
	// Model invocation
	AIProvider string `env:"AI_PROVIDER" envDefault:"openai"` // "openai" | "http"
	APIKey     string `env:"LLM_API_KEY"`
	BaseURL    string `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model      string `env:"LLM_MODEL" envDefault:"openai/gpt-oss-20b"`

	// Storage
	StoragePath string `env:"STORAGE_PATH" envDefault:"data/petstore.json"`

	// Conversation
	MemoryRecentLimit int `env:"MEMORY_RECENT_LIMIT" envDefault:"10"`
	ReplyCharBudget   int `env:"REPLY_CHAR_BUDGET" envDefault:"80"`

	// Optional pipeline stages
	TranslateEnabled  bool `env:"TRANSLATE_ENABLED" envDefault:"false"`
	ModerationEnabled bool `env:"MODERATION_ENABLED" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// New parses configuration from the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/oenomel87/agora/errors"
)

type ServerConfig struct {
	Host       string
	Port       int
	LogLevel   string
	LogHandler string

	DatabaseUrl    string
	AllowedOrigins []string

	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string

	ResponderTimeout time.Duration

	ParticipantsFile string
}

// NewServerConfig reads the environment, loading .env first when present.
// Every field has a working default except the provider API keys.
func NewServerConfig() (*ServerConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.Wrapf(err, "failed to load .env")
		}
	}

	c := &ServerConfig{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             8000,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogHandler:       getEnv("LOG_HANDLER", "default"),
		DatabaseUrl:      getEnv("DATABASE_URL", "agora.db"),
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		ResponderTimeout: 120 * time.Second,
		ParticipantsFile: os.Getenv("PARTICIPANTS_FILE"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "invalid PORT %q", v)
		}
		c.Port = port
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}

	if v := os.Getenv("RESPONDER_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "invalid RESPONDER_TIMEOUT %q", v)
		}
		c.ResponderTimeout = timeout
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

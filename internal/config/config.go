package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// LogConfig controls the process logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `env:"LOG_FORMAT" validate:"omitempty,oneof=json text"`
	File   string `env:"LOG_FILE"`
}

// ServerConfig holds all configuration for the answer service
type ServerConfig struct {
	// Server configuration
	ServerPort string `env:"SERVER_PORT" validate:"required,numeric"`

	// OpenAI configuration
	OpenAIAPIKey     string  `env:"OPENAI_API_KEY" validate:"required"`
	OpenAIBaseURL    string  `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	OpenAIModel      string  `env:"OPENAI_MODEL" validate:"required"`
	OpenAIEmbedModel string  `env:"OPENAI_EMBED_MODEL" validate:"required"`
	Temperature      float64 `env:"OPENAI_TEMPERATURE" validate:"gte=0,lte=2"`
	EmbedDimensions  int     `env:"EMBED_DIMENSIONS" validate:"gt=0"`

	// Qdrant configuration
	QdrantHost       string `env:"QDRANT_HOST" validate:"required,hostname|ip"`
	QdrantPort       int    `env:"QDRANT_PORT" validate:"gt=0,lte=65535"`
	QdrantCollection string `env:"QDRANT_COLLECTION" validate:"required"`

	// RAG configuration
	ChunkSize    int    `env:"CHUNK_SIZE" validate:"gt=0"`
	ChunkOverlap int    `env:"CHUNK_OVERLAP" validate:"gte=0,ltfield=ChunkSize"`
	SearchLimit  int    `env:"SEARCH_LIMIT" validate:"gt=0"`
	PromptDir    string `env:"PROMPT_DIR"`

	Log LogConfig
}

// LoadServerConfig loads the answer service configuration from environment
// variables and command-line flags. Flags take precedence over environment
// variables.
func LoadServerConfig(args []string) (*ServerConfig, error) {
	cfg := &ServerConfig{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerPort, "server-port", getEnv("SERVER_PORT", "8080"), "Server port")
	fs.StringVar(&cfg.OpenAIAPIKey, "openai-key", getEnv("OPENAI_API_KEY", ""), "OpenAI API key")
	fs.StringVar(&cfg.OpenAIBaseURL, "openai-base-url", getEnv("OPENAI_BASE_URL", ""), "OpenAI-compatible API base URL")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", getEnv("OPENAI_MODEL", "gpt-4.1-mini"), "OpenAI model for chat completions")
	fs.StringVar(&cfg.OpenAIEmbedModel, "openai-embed-model", getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-large"), "OpenAI model for embeddings")
	fs.Float64Var(&cfg.Temperature, "openai-temperature", getEnvAsFloat("OPENAI_TEMPERATURE", 0.2), "Sampling temperature for answers")
	fs.IntVar(&cfg.EmbedDimensions, "embed-dimensions", getEnvAsInt("EMBED_DIMENSIONS", 3072), "Embedding vector size")
	fs.StringVar(&cfg.QdrantHost, "qdrant-host", getEnv("QDRANT_HOST", "localhost"), "Qdrant host")
	fs.IntVar(&cfg.QdrantPort, "qdrant-port", getEnvAsInt("QDRANT_PORT", 6334), "Qdrant gRPC port")
	fs.StringVar(&cfg.QdrantCollection, "qdrant-collection", getEnv("QDRANT_COLLECTION", "kgpt"), "Qdrant collection name")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", getEnvAsInt("CHUNK_SIZE", 1000), "Text chunk size in characters")
	fs.IntVar(&cfg.ChunkOverlap, "chunk-overlap", getEnvAsInt("CHUNK_OVERLAP", 200), "Text chunk overlap in characters")
	fs.IntVar(&cfg.SearchLimit, "search-limit", getEnvAsInt("SEARCH_LIMIT", 3), "Number of search results to return")
	fs.StringVar(&cfg.PromptDir, "prompt-dir", getEnv("PROMPT_DIR", ""), "Directory with system_prompt.txt and answer_prompt.txt overrides")
	fs.StringVar(&cfg.Log.Level, "log-level", getEnv("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.Log.Format, "log-format", getEnv("LOG_FORMAT", "json"), "Log format (json or text)")
	fs.StringVar(&cfg.Log.File, "log-file", getEnv("LOG_FILE", ""), "Log file; stderr when empty")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ClientConfig holds the configuration of the chat client and gateway
type ClientConfig struct {
	Endpoint          string `env:"KGPT_ENDPOINT" validate:"required,url"`
	GatewayPort       string `env:"GATEWAY_PORT" validate:"required,numeric"`
	MaxQuestionLength int    `env:"MAX_QUESTION_LENGTH" validate:"gt=0"`

	Log LogConfig
}

// LoadClientConfig reads the client configuration from the environment.
// Callers may override fields (e.g. from CLI flags) and call Validate again.
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{
		Endpoint:          getEnv("KGPT_ENDPOINT", "https://kgpt-1.onrender.com/query"),
		GatewayPort:       getEnv("GATEWAY_PORT", "3000"),
		MaxQuestionLength: getEnvAsInt("MAX_QUESTION_LENGTH", 2000),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

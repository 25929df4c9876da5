package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	OllamaURL        string `yaml:"ollama_url"`
	OllamaGenModel   string `yaml:"ollama_gen_model"`
	OllamaEmbedModel string `yaml:"ollama_embed_model"`

	RetrievalK        int     `yaml:"retrieval_k"`
	LexicalWeight     float64 `yaml:"lexical_weight"`
	SemanticWeight    float64 `yaml:"semantic_weight"`
	ContextCharBudget int     `yaml:"context_char_budget"`
	HistoryMaxTurns   int     `yaml:"history_max_turns"`
	ExtractionTopK    int     `yaml:"extraction_top_k"`

	APIRateLimitRPS   float64 `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int     `yaml:"api_rate_limit_burst"`
	APIMaxInFlight    int     `yaml:"api_max_in_flight"`

	EmbedRetryMaxAttempts int  `yaml:"embed_retry_max_attempts"`
	BreakerEnabled        bool `yaml:"breaker_enabled"`
}

// Load builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, and environment variables, in that order of
// precedence (env wins). A .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		OllamaURL:        "http://localhost:11434",
		OllamaGenModel:   "llama3.1:8b",
		OllamaEmbedModel: "nomic-embed-text",

		RetrievalK:        4,
		LexicalWeight:     0.5,
		SemanticWeight:    0.5,
		ContextCharBudget: 8000,
		HistoryMaxTurns:   10,
		ExtractionTopK:    5,

		APIRateLimitRPS:   10,
		APIRateLimitBurst: 20,
		APIMaxInFlight:    64,

		EmbedRetryMaxAttempts: 3,
		BreakerEnabled:        true,
	}
}

func applyEnv(cfg *Config) {
	cfg.APIPort = envString("API_PORT", cfg.APIPort)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.OllamaURL = envString("OLLAMA_URL", cfg.OllamaURL)
	cfg.OllamaGenModel = envString("OLLAMA_GEN_MODEL", cfg.OllamaGenModel)
	cfg.OllamaEmbedModel = envString("OLLAMA_EMBED_MODEL", cfg.OllamaEmbedModel)

	cfg.RetrievalK = envInt("RETRIEVAL_K", cfg.RetrievalK)
	cfg.LexicalWeight = envFloat("LEXICAL_WEIGHT", cfg.LexicalWeight)
	cfg.SemanticWeight = envFloat("SEMANTIC_WEIGHT", cfg.SemanticWeight)
	cfg.ContextCharBudget = envInt("CONTEXT_CHAR_BUDGET", cfg.ContextCharBudget)
	cfg.HistoryMaxTurns = envInt("HISTORY_MAX_TURNS", cfg.HistoryMaxTurns)
	cfg.ExtractionTopK = envInt("EXTRACTION_TOP_K", cfg.ExtractionTopK)

	cfg.APIRateLimitRPS = envFloat("API_RATE_LIMIT_RPS", cfg.APIRateLimitRPS)
	cfg.APIRateLimitBurst = envInt("API_RATE_LIMIT_BURST", cfg.APIRateLimitBurst)
	cfg.APIMaxInFlight = envInt("API_MAX_IN_FLIGHT", cfg.APIMaxInFlight)

	cfg.EmbedRetryMaxAttempts = envInt("EMBED_RETRY_MAX_ATTEMPTS", cfg.EmbedRetryMaxAttempts)
	cfg.BreakerEnabled = envBool("BREAKER_ENABLED", cfg.BreakerEnabled)
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

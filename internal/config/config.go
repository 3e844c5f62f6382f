package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Drafting DraftingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	OracleLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" | "redis"
	SessionTTL         time.Duration
	SessionLockTTL     time.Duration
	OtelEnabled        bool
	OtelEndpoint       string
	MaxUploadSize      int
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	Exa          string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider          string // "gemini" | "ollama" | "huggingface" | "none"
	LLMModel             string
	LLMBaseURL           string
	Temperature          float64
	MaxTokens            int
	EmbeddingProvider    string // "gemini" | "ollama" | "none"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	OracleTimeout        time.Duration
	OracleRPS            float64
	OracleBurst          int
}

type DraftingConfig struct {
	ChunkSize              int
	ChunkOverlap           int
	ChunkLookback          int
	MinConfidenceThreshold float64
	ExaNumResults          int
	ExaTextLength          int
	EmbedTemplateTopic     string
	EmbedDocumentTopic     string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			OracleLogFilePath:  getEnv("ORACLE_LOG_FILE_PATH", "logs/oracle.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SessionLockTTL:     getEnvAsDuration("SESSION_LOCK_TTL", 2*time.Minute),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			MaxUploadSize:      getEnvAsInt("MAX_UPLOAD_SIZE", 10*1024*1024),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Exa:          getEnv("EXA_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:          getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:             getEnv("LLM_MODEL", ""),
			LLMBaseURL:           getEnv("LLM_BASE_URL", ""),
			Temperature:          getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			MaxTokens:            getEnvAsInt("LLM_MAX_TOKENS", 8192),
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OracleTimeout:        getEnvAsDuration("ORACLE_TIMEOUT", 30*time.Second),
			OracleRPS:            getEnvAsFloat("ORACLE_RPS", 2),
			OracleBurst:          getEnvAsInt("ORACLE_BURST", 4),
		},
		Drafting: DraftingConfig{
			ChunkSize:              getEnvAsInt("CHUNK_SIZE", 4000),
			ChunkOverlap:           getEnvAsInt("CHUNK_OVERLAP", 200),
			ChunkLookback:          getEnvAsInt("CHUNK_LOOKBACK", 100),
			MinConfidenceThreshold: getEnvAsFloat("MIN_CONFIDENCE_THRESHOLD", 0.6),
			ExaNumResults:          getEnvAsInt("EXA_NUM_RESULTS", 5),
			ExaTextLength:          getEnvAsInt("EXA_TEXT_LENGTH", 2000),
			EmbedTemplateTopic:     getEnv("EMBED_TEMPLATE_TOPIC", "EMBED_TEMPLATE"),
			EmbedDocumentTopic:     getEnv("EMBED_DOCUMENT_TOPIC", "EMBED_DOCUMENT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or bare seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

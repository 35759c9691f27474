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
	Ai       AIConfig
	Recents  RecentsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string // "silent", "error", "warn", "info"
}

type AIConfig struct {
	LLMProvider   string // "ollama", "openai", "huggingface", "gemini"
	LLMModel      string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIKey     string
	HuggingFace   string
	GoogleGemini  string
	RetryAttempts uint

	// GenerationTimeout bounds one tool run; 0 disables the deadline.
	GenerationTimeout time.Duration
}

type RecentsConfig struct {
	SaveTopic          string
	LockTTL            time.Duration
	LockWait           time.Duration
	PreferenceCacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
			HuggingFace:       getEnv("HUGGINGFACE_API_KEY", ""),
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			RetryAttempts:     uint(getEnvAsInt("LLM_RETRY_ATTEMPTS", 3)),
			GenerationTimeout: getEnvAsDuration("LLM_GENERATION_TIMEOUT", 90*time.Second),
		},
		Recents: RecentsConfig{
			SaveTopic:          getEnv("AI_RECENT_SAVE_TOPIC_NAME", "AI_RECENT_SAVE"),
			LockTTL:            getEnvAsDuration("AI_RECENT_LOCK_TTL", 5*time.Second),
			LockWait:           getEnvAsDuration("AI_RECENT_LOCK_WAIT", 2*time.Second),
			PreferenceCacheTTL: getEnvAsDuration("AI_PREFERENCE_CACHE_TTL", 5*time.Minute),
		},
	}
}

// APIKey returns the key of the configured provider.
func (c AIConfig) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIKey
	case "huggingface":
		return c.HuggingFace
	case "gemini":
		return c.GoogleGemini
	}
	return ""
}

// BaseURL returns the endpoint of the configured provider, if it has one.
func (c AIConfig) BaseURL() string {
	switch c.LLMProvider {
	case "ollama":
		return c.OllamaBaseURL
	case "openai":
		return c.OpenAIBaseURL
	}
	return ""
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Quota    QuotaConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	OpenAI         string
	MidtransServer string
	EmbedTopic     string
}

type AIConfig struct {
	BaseURL         string // OpenAI-compatible API base
	ChatModel       string
	EmbeddingModel  string
	TranscribeModel string
	TTSModel        string
	TTSVoice        string
	CacheTTLSeconds int
	MinSimilarity   float64
	ContextSize     int
	EmbedBatchSize  int
	DefaultLanguage string
}

type QuotaConfig struct {
	KeyPrefix  string
	TTLSeconds int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "DreamJournal"),
		},
		Keys: APIKeys{
			OpenAI:         getEnv("OPENAI_API_KEY", ""),
			MidtransServer: getEnv("MIDTRANS_SERVER_KEY", ""),
			EmbedTopic:     getEnv("EMBED_DREAM_TOPIC_NAME", "EMBED_DREAM_TEXT"),
		},
		Ai: AIConfig{
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			ChatModel:       getEnv("AI_CHAT_MODEL", "gpt-4-turbo-preview"),
			EmbeddingModel:  getEnv("AI_EMBEDDING_MODEL", "text-embedding-ada-002"),
			TranscribeModel: getEnv("AI_TRANSCRIBE_MODEL", "whisper-1"),
			TTSModel:        getEnv("AI_TTS_MODEL", "tts-1"),
			TTSVoice:        getEnv("AI_TTS_VOICE", "nova"),
			CacheTTLSeconds: getEnvAsInt("AI_CACHE_TTL_SECONDS", 3600),
			MinSimilarity:   getEnvAsFloat("AI_MIN_SIMILARITY", 0.7),
			ContextSize:     getEnvAsInt("AI_CONTEXT_SIZE", 5),
			EmbedBatchSize:  getEnvAsInt("AI_EMBED_BATCH_SIZE", 20),
			DefaultLanguage: getEnv("AI_DEFAULT_LANGUAGE", "ru"),
		},
		Quota: QuotaConfig{
			KeyPrefix:  getEnv("QUOTA_KEY_PREFIX", "quota:dreams"),
			TTLSeconds: getEnvAsInt("QUOTA_TTL_SECONDS", 86400),
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
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

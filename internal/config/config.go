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
	Speech   SpeechConfig
	Ai       AIConfig
	Audio    AudioConfig
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
	JWTSecret          string
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

type SpeechConfig struct {
	GoogleAPIKey   string
	RequestTimeout int // seconds, applied to both STT and TTS calls
	STTMaxRetries  int
}

type AIConfig struct {
	SummarizerProvider string // "ollama" or "gemini"
	SummarizerModel    string
	OllamaBaseURL      string
	GeminiAPIKey       string
}

type AudioConfig struct {
	StoragePath   string
	DrainMaxBytes int // sliding window size per transcription pass
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
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "NIA"),
		},
		Speech: SpeechConfig{
			GoogleAPIKey:   getEnv("GOOGLE_SPEECH_API_KEY", ""),
			RequestTimeout: getEnvAsInt("SPEECH_REQUEST_TIMEOUT_SECONDS", 15),
			STTMaxRetries:  getEnvAsInt("STT_MAX_RETRIES", 3),
		},
		Ai: AIConfig{
			SummarizerProvider: getEnv("SUMMARIZER_PROVIDER", "ollama"),
			SummarizerModel:    getEnv("SUMMARIZER_MODEL", "llama3"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:       getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Audio: AudioConfig{
			StoragePath:   getEnv("AUDIO_STORAGE_PATH", "uploads/audio"),
			DrainMaxBytes: getEnvAsInt("AUDIO_DRAIN_MAX_BYTES", 64*1024),
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

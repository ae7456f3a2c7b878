package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every value that affects pipeline behavior. It is built once
// at startup and passed down explicitly; nothing reads the environment after
// Load returns.
type Config struct {
	Port     string
	LogLevel string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Podcast
	Presenter1Name        string
	Presenter2Name        string
	TargetDurationMinutes int

	// TTS
	TTSBinary        string
	PrimaryVoiceID   string
	SecondaryVoiceID string

	// CLI output
	ScriptFile string
	AudioDir   string

	// Upload limits
	MaxFileSize int64
}

func Load() (*Config, error) {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Presenter1Name:        getEnv("PRESENTER_1_NAME", "Apresentador João"),
		Presenter2Name:        getEnv("PRESENTER_2_NAME", "Apresentadora Maria"),
		TargetDurationMinutes: getEnvInt("TARGET_PODCAST_DURATION_MINUTES", 15),
		TTSBinary:             getEnv("TTS_BINARY", "espeak-ng"),
		PrimaryVoiceID:        getEnv("PRIMARY_VOICE_ID", ""),
		SecondaryVoiceID:      getEnv("SECONDARY_VOICE_ID", ""),
		ScriptFile:            getEnv("SCRIPT_FILE", "roteiro_podcast.txt"),
		AudioDir:              getEnv("AUDIO_DIR", "podcast_audios"),
		MaxFileSize:           25 * 1024 * 1024,
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	if cfg.TargetDurationMinutes <= 0 {
		return nil, fmt.Errorf("TARGET_PODCAST_DURATION_MINUTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

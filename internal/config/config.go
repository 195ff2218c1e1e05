package config

import (
	"os"
	"strings"
)

// Config collects every environment-driven knob the server recognizes.
// Load it once in main after godotenv has populated the environment.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	JWTSecret        string
	ShareTokenSecret string
	AdminAPIKey      string
	FrontendBaseURL  string

	// Verification pipeline switches.
	UseCloudOCR   bool
	UseLLMOverlay bool

	GeminiAPIKey    string
	GeminiModel     string
	GroqAPIKey      string
	GroqModel       string
	GoogleCredsFile string

	// Optional JSON file overriding the built-in institution correction table.
	CorrectionsFile string

	CloudinaryCloudName    string
	CloudinaryUploadPreset string
}

func Load() *Config {
	cfg := &Config{
		Port:                   getenv("PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisURL:               os.Getenv("REDIS_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		ShareTokenSecret:       os.Getenv("SHARE_TOKEN_SECRET"),
		AdminAPIKey:            os.Getenv("ADMIN_API_KEY"),
		FrontendBaseURL:        getenv("FRONTEND_BASE_URL", "http://localhost:3000"),
		UseCloudOCR:            boolenv("USE_CLOUD_OCR"),
		UseLLMOverlay:          boolenv("USE_LLM_OVERLAY"),
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		GeminiModel:            getenv("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		GroqAPIKey:             os.Getenv("GROQ_API_KEY"),
		GroqModel:              getenv("GROQ_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
		GoogleCredsFile:        os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		CorrectionsFile:        os.Getenv("CORRECTIONS_FILE"),
		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
	}
	if cfg.ShareTokenSecret == "" {
		cfg.ShareTokenSecret = cfg.JWTSecret
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolenv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

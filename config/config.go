package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Значения по умолчанию
const (
	DefaultListenAddr          = ":8080"
	DefaultPaletteDSN          = "palettes.db"
	DefaultAdjudicationTimeout = 60 * time.Second
	DefaultLogLevel            = "info"
)

type Config struct {
	TelegramToken string

	GeminiAPIKey         string
	GeminiReasoningModel string
	GeminiLayoutModel    string
	GeminiVisionModel    string

	ListenAddr string `validate:"required"`
	// PaletteDSN путь к SQLite, postgres:// URL или пустая строка для хранения в памяти
	PaletteDSN string
	// RulesFile YAML с переопределениями правил локальной проверки
	RulesFile           string        `validate:"omitempty,file"`
	AdjudicationTimeout time.Duration `validate:"gt=0"`
	RembgURL            string        `validate:"omitempty,url"`
	LogLevel            string        `validate:"oneof=debug info warn error"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:        os.Getenv("TELEGRAM_TOKEN"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiReasoningModel: os.Getenv("GEMINI_REASONING_MODEL"),
		GeminiLayoutModel:    os.Getenv("GEMINI_LAYOUT_MODEL"),
		GeminiVisionModel:    os.Getenv("GEMINI_VISION_MODEL"),
		ListenAddr:           getEnv("LISTEN_ADDR", DefaultListenAddr),
		PaletteDSN:           getEnv("PALETTE_DSN", DefaultPaletteDSN),
		RulesFile:            os.Getenv("RULES_FILE"),
		RembgURL:             os.Getenv("REMBG_URL"),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		AdjudicationTimeout:  DefaultAdjudicationTimeout,
	}

	if raw := os.Getenv("ADJUDICATION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("ADJUDICATION_TIMEOUT: %w", err)
		}
		cfg.AdjudicationTimeout = d
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// getEnv возвращает переменную окружения или значение по умолчанию, если она не задана
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

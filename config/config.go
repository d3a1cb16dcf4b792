package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AppName     = "lintubot"
	EnvFileName = "config.env"
)

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Config holds everything the service needs, read once at startup.
type Config struct {
	TelegramToken  string
	TelegramChatID int64
	GroqAPIURL     string
	GroqAPIKey     string
	RootPath       string
	ListenAddr     string
	UploadDir      string
}

// Load reads configuration from the environment. Missing required variables
// are collected and reported in a single error so the operator can fix them
// in one pass.
func Load() (*Config, error) {
	var missing []string
	get := func(name string) string {
		v := os.Getenv(name)
		if v == "" {
			missing = append(missing, name)
		}
		return v
	}

	cfg := &Config{
		TelegramToken: get("TELEGRAM_TOKEN"),
		GroqAPIURL:    get("GROQ_API_URL"),
		GroqAPIKey:    get("GROQ_API_KEY"),
		RootPath:      envOr("ROOT_PATH", "/firebot"),
		ListenAddr:    envOr("LISTEN_ADDR", ":8000"),
		UploadDir:     envOr("UPLOAD_DIR", "./uploads"),
	}

	chatIDStr := get("TELEGRAM_CHAT_ID")
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be a valid integer: %w", err)
	}
	cfg.TelegramChatID = chatID

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

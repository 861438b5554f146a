package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration values.
type Config struct {
	Secret        string
	MaintainerKey string
	DatabasePath  string
	HTTPPort      string
	CORSOrigins   []string

	Seed SeedConfig
	Chat ChatConfig
}

// SeedConfig selects where the official seed snapshot lives.
type SeedConfig struct {
	Driver      string // fs | s3
	Path        string
	S3Bucket    string
	S3Key       string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// ChatConfig points at an OpenAI-compatible chat-completion service.
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	port := getenv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		Secret:        getenv("SECRET", "dev_secret"),
		MaintainerKey: os.Getenv("MAINTAINER_KEY"),
		DatabasePath:  getenv("DATABASE_PATH", "data/medicines.db"),
		HTTPPort:      port,
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		Seed: SeedConfig{
			Driver:      strings.ToLower(getenv("SEED_DRIVER", "fs")),
			Path:        getenv("SEED_PATH", "data/seed_catalog.json"),
			S3Bucket:    os.Getenv("SEED_S3_BUCKET"),
			S3Key:       getenv("SEED_S3_KEY", "seed_catalog.json"),
			S3Region:    os.Getenv("SEED_S3_REGION"),
			S3Endpoint:  os.Getenv("SEED_S3_ENDPOINT"),
			S3PathStyle: strings.EqualFold(os.Getenv("SEED_S3_PATH_STYLE"), "true"),
		},
		Chat: ChatConfig{
			BaseURL: getenv("CHAT_API_BASE", "https://api.deepseek.com"),
			APIKey:  os.Getenv("CHAT_API_KEY"),
			Model:   getenv("CHAT_MODEL", "deepseek-chat"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"os"
)

// WhatsApp transport selection
var WAProvider string // "whatsmeow" (default), "meta" or "twilio"
var SessionName string
var WebhookURL string
var WebhookSecret string

// Hosted provider credentials
var MetaToken string
var MetaNumberID string
var TwilioSID string
var TwilioToken string
var TwilioFrom string

// AI Configuration
var AIDefaultProvider string
var OpenAIAPIKey string
var OpenAIDefaultModel string
var GeminiAPIKey string
var GeminiDefaultModel string
var AIDefaultTemperature float64
var AIDefaultMaxTokens int

// Admin auth
var AdminUsername string
var AdminPasswordHash string

type Config struct {
	Port               string
	DBConnectionString string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "3001"),
		DBConnectionString: getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

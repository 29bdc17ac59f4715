package config

import (
	"os"
)

type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDB         string
	DefaultLocale   string
	AnthropicAPIKey string
	AnthropicModel  string
	GitHubOwner     string
	GitHubRepo      string
	GitHubToken     string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGODB_DATABASE", "hrbot"),
		DefaultLocale:   getEnv("DEFAULT_LOCALE", "en"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", ""),
		GitHubOwner:     getEnv("GITHUB_OWNER", ""),
		GitHubRepo:      getEnv("GITHUB_REPO", ""),
		GitHubToken:     getEnv("GITHUB_TOKEN", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package configuration

import (
	"os"
	"strings"
)

// YouTubeConfig holds the data API settings used when a request brings no credential of its own.
type YouTubeConfig struct {
	APIKey      string
	AccessToken string
	Endpoint    string
}

// GetYouTubeConfig reads the YouTube settings from the JSON config with environment variable fallback.
func GetYouTubeConfig() *YouTubeConfig {
	return &YouTubeConfig{
		APIKey:      getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		AccessToken: getEnv("YOUTUBE_ACCESS_TOKEN", ""),
		Endpoint:    getConfigValue(C.YouTube.Endpoint, "YOUTUBE_ENDPOINT", ""),
	}
}

// getConfigValue prefers the environment, then a non-placeholder config value, then the default.
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Keys holds the API keys read from the environment
type Keys struct {
	Gemini string
	OpenAI string
}

// LoadEnv loads the first .env file found; a missing file is not an error
func LoadEnv() error {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// APIKeys returns the keys the configured backends need, failing fast when one is missing
func (c *Config) APIKeys() (Keys, error) {
	keys := Keys{
		Gemini: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		OpenAI: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}

	if c.Summary.Provider == ProviderGemini && keys.Gemini == "" {
		return keys, fmt.Errorf("GEMINI_API_KEY is required for summary.provider=%s", ProviderGemini)
	}
	needOpenAI := c.Summary.Provider == ProviderOpenAI || c.Transcribe.Backend == BackendOpenAI
	if needOpenAI && keys.OpenAI == "" {
		return keys, fmt.Errorf("OPENAI_API_KEY is required by the configured openai backend")
	}

	return keys, nil
}

package summarizer

import (
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implSummarizer struct {
	gen    generator
	logger logger.Logger
}

// NewGemini creates a Summarizer that calls Gemini through an existing client
func NewGemini(client *genai.Client, cfg config.SummaryConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		gen: &geminiGenerator{
			client:      client,
			model:       cfg.Model,
			maxTokens:   cfg.MaxTokens,
			temperature: cfg.TemperatureValue(),
		},
		logger: log,
	}
}

// NewOpenAI creates a Summarizer that calls the OpenAI chat API through an existing client
func NewOpenAI(client *openai.Client, cfg config.SummaryConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		gen: &openAIGenerator{
			client:      client,
			model:       cfg.Model,
			maxTokens:   cfg.MaxTokens,
			temperature: cfg.TemperatureValue(),
		},
		logger: log,
	}
}

package summarizer

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
)

type openAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func (g *openAIGenerator) name() string {
	return "openai/" + g.model
}

func (g *openAIGenerator) generate(ctx context.Context, prompt string) (string, error) {
	// go-openai drops a zero temperature from the request, which means 1 server-side
	temperature := g.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

package speech

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type openAIWhisper struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a Recognizer that uses the OpenAI transcription API
func NewOpenAI(client *openai.Client, model string) Recognizer {
	if model == "" {
		model = openai.Whisper1
	}
	return &openAIWhisper{client: client, model: model}
}

func (o *openAIWhisper) Recognize(ctx context.Context, audioPath string) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("create transcription: %w", err)
	}

	return resp.Text, nil
}

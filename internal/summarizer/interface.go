package summarizer

import "context"

// Summarizer turns a meeting transcript into minutes-of-meeting text
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// generator sends one prompt to a text-generation service and returns the first candidate
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
	name() string
}

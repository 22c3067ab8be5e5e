package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
)

const summaryPrompt = `
You are an AI assistant specialized in generating formal meeting minutes (MoM).

Summarize the following transcript into structured bullet points that include:
- Attendees and their roles
- Motions passed or decisions made
- Discussions held
- Changes to any bylaws or regulations
- Future actions or next steps

Transcript:
"""%s"""

MoM Summary:
`

// BuildPrompt embeds the transcript in the fixed minutes template
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(summaryPrompt, transcript)
}

// Summarize sends exactly one prompt and returns the trimmed generated text.
// There is no retry; any service error is a summary generation failure.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	startTime := time.Now()
	s.logger.Info(ctx, "Summarizing transcript (%d chars) with %s", len(transcript), s.gen.name())

	text, err := s.gen.generate(ctx, BuildPrompt(transcript))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", failure.ErrSummaryGeneration, s.gen.name(), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned no text", failure.ErrSummaryGeneration, s.gen.name())
	}

	s.logger.Info(ctx, "Summary generated in %s", time.Since(startTime))
	return text, nil
}

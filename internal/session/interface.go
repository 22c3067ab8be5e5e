package session

import (
	"context"
	"io"
	"time"
)

// Orchestrator runs one uploaded recording through normalize, transcribe and summarize
type Orchestrator interface {
	// Validate checks an upload's name and size before any work is done
	Validate(filename string, size int64) error
	// Process persists the upload and runs the pipeline. Once the upload is accepted
	// the Result is always returned, filled as far as the pipeline got; when only the
	// summary fails it still carries the transcript alongside the error.
	Process(ctx context.Context, filename string, r io.Reader) (*Result, error)
	// ProcessFile is Process for a file already on disk; the file is not modified
	ProcessFile(ctx context.Context, path string) (*Result, error)
}

// Normalizer extracts PCM audio from a container file
type Normalizer interface {
	Normalize(ctx context.Context, inputPath, outputPath string) (string, error)
}

// Transcriber produces a transcript for an audio file
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, chunkLengthSec int) (string, error)
}

// Summarizer produces meeting minutes for a transcript
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Result is the outcome of one session
type Result struct {
	ID         string
	Filename   string
	Transcript string
	Summary    string
	Bullets    []string
	Normalized bool
	Duration   time.Duration
}

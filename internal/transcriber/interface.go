// Package transcriber implements chunked transcription: a recording is cut into
// fixed-length windows, each window is recognized on its own, and the texts are
// joined back together in start-offset order.
package transcriber

import "context"

// Transcriber turns an audio file into one transcript
type Transcriber interface {
	// Transcribe returns the transcript of audioPath using windows of chunkLengthSec
	// seconds. Results are memoized by file content and chunk length.
	Transcribe(ctx context.Context, audioPath string, chunkLengthSec int) (string, error)
}

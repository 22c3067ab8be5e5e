// Package failure defines the error kinds a session can end with.
package failure

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMediaDecode          = errors.New("media decode failure")
	ErrTranscription        = errors.New("transcription failure")
	ErrSummaryGeneration    = errors.New("summary generation failure")
	ErrUploadTooLarge       = errors.New("upload too large")
	ErrUnsupportedExtension = errors.New("unsupported extension")
	ErrInvalidArgument      = errors.New("invalid argument")
)

// ChunkError reports the chunk whose recognition call failed
type ChunkError struct {
	Index  int
	Offset time.Duration
	Err    error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%v: chunk %d at offset %s: %v", ErrTranscription, e.Index, e.Offset, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Is makes every ChunkError match ErrTranscription
func (e *ChunkError) Is(target error) bool {
	return target == ErrTranscription
}

// Kind names the error kind of err, or "internal" when none matches
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMediaDecode):
		return "media_decode_failure"
	case errors.Is(err, ErrTranscription):
		return "transcription_failure"
	case errors.Is(err, ErrSummaryGeneration):
		return "summary_generation_failure"
	case errors.Is(err, ErrUploadTooLarge):
		return "upload_too_large"
	case errors.Is(err, ErrUnsupportedExtension):
		return "unsupported_extension"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}

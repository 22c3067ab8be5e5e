// Package speech holds the speech-recognition backends. A Recognizer is built once
// at startup and shared by every session.
package speech

import "context"

// Recognizer turns one audio file into text
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string) (string, error)
}

package media

import "context"

// Normalizer converts a container file into a fixed-format PCM WAV file
type Normalizer interface {
	// Normalize writes the audio track of inputPath to outputPath and returns outputPath.
	// The input file is left untouched.
	Normalize(ctx context.Context, inputPath, outputPath string) (string, error)
}

// Package audio decodes recordings into PCM streams and cuts them into
// fixed-length windows that can be written back out as standalone WAV files.
package audio

import (
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Stream is a decoded, interleaved PCM recording. It is never modified after decoding,
// so windows of it may be written out concurrently.
type Stream struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Data       []int
}

// Frames is the number of samples per channel
func (s *Stream) Frames() int {
	if s.Channels == 0 {
		return 0
	}
	return len(s.Data) / s.Channels
}

// Duration is the playback length of the stream
func (s *Stream) Duration() time.Duration {
	return FramesToDuration(s.Frames(), s.SampleRate)
}

// Window returns the interleaved samples covered by w
func (s *Stream) Window(w Window) []int {
	return s.Data[w.Start*s.Channels : w.End*s.Channels]
}

// WriteWindow writes the samples covered by w to path as a standalone PCM WAV file
func (s *Stream) WriteWindow(path string, w Window) error {
	if w.Start < 0 || w.End > s.Frames() || w.Start > w.End {
		return fmt.Errorf("window [%d,%d) outside stream of %d frames", w.Start, w.End, s.Frames())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunk file: %w", err)
	}

	enc := wav.NewEncoder(f, s.SampleRate, s.BitDepth, s.Channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: s.Channels, SampleRate: s.SampleRate},
		Data:           s.Window(w),
		SourceBitDepth: s.BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode chunk: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize chunk: %w", err)
	}
	return f.Close()
}

// FramesToDuration converts a frame count at sampleRate into a duration
func FramesToDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

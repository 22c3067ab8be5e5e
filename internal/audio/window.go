package audio

import "time"

// Window is a contiguous, half-open frame range [Start, End) of a stream
type Window struct {
	Index int
	Start int
	End   int
}

// Len is the number of frames in the window
func (w Window) Len() int {
	return w.End - w.Start
}

// Offset is the start time of the window within the stream
func (w Window) Offset(sampleRate int) time.Duration {
	return FramesToDuration(w.Start, sampleRate)
}

// Partition splits [0, frames) into consecutive windows of size frames each.
// The last window is truncated to what remains; nothing is padded.
func Partition(frames, size int) []Window {
	if frames <= 0 || size <= 0 {
		return nil
	}

	windows := make([]Window, 0, (frames+size-1)/size)
	for start := 0; start < frames; start += size {
		windows = append(windows, Window{
			Index: len(windows),
			Start: start,
			End:   min(start+size, frames),
		})
	}
	return windows
}

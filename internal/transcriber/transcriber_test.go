package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/audio"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

const testRate = 100

// writeRecording writes a mono WAV of the given length whose samples carry the
// second they belong to, so a recognizer can tell which part of the file it got.
func writeRecording(t *testing.T, dir, name string, seconds int) string {
	t.Helper()

	stream := &audio.Stream{SampleRate: testRate, Channels: 1, BitDepth: 16}
	for i := 0; i < seconds*testRate; i++ {
		stream.Data = append(stream.Data, i/testRate)
	}

	path := filepath.Join(dir, name)
	require.NoError(t, stream.WriteWindow(path, audio.Window{Start: 0, End: stream.Frames()}))
	return path
}

type call struct {
	path     string
	startSec int
	frames   int
}

// fakeRecognizer answers "  part<second>  " for each chunk it is given
type fakeRecognizer struct {
	mu     sync.Mutex
	calls  []call
	failAt int
	hook   func(startSec int)

	// when set, each call signals entered and waits for release or its ctx
	entered chan int
	release chan struct{}
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{failAt: -1}
}

func (f *fakeRecognizer) Recognize(ctx context.Context, path string) (string, error) {
	chunk, err := audio.Decode(path)
	if err != nil {
		return "", err
	}
	startSec := chunk.Data[0]

	f.mu.Lock()
	f.calls = append(f.calls, call{path: path, startSec: startSec, frames: chunk.Frames()})
	f.mu.Unlock()

	if f.hook != nil {
		f.hook(startSec)
	}
	if f.release != nil {
		f.entered <- startSec
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if startSec == f.failAt {
		return "", errors.New("model crashed")
	}
	return fmt.Sprintf("  part%d  ", startSec), nil
}

func (f *fakeRecognizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestTranscriber(rec *fakeRecognizer, tempDir string, workers int) Transcriber {
	cfg := config.TranscribeConfig{Workers: workers, CacheEntries: 16}
	return New(rec, cfg, tempDir, logger.Nop())
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary chunk files left behind")
}

func TestTranscribeSixtyFiveSeconds(t *testing.T) {
	dir := t.TempDir()
	tempDir := t.TempDir()
	path := writeRecording(t, dir, "meeting.wav", 65)

	rec := newFakeRecognizer()
	text, err := newTestTranscriber(rec, tempDir, 1).Transcribe(context.Background(), path, 30)
	require.NoError(t, err)

	assert.Equal(t, "part0 part30 part60", text)
	require.Len(t, rec.calls, 3)
	assert.Equal(t, 30*testRate, rec.calls[0].frames)
	assert.Equal(t, 30*testRate, rec.calls[1].frames)
	assert.Equal(t, 5*testRate, rec.calls[2].frames)
	assertEmptyDir(t, tempDir)
}

func TestTranscribeChunkCount(t *testing.T) {
	tests := []struct {
		seconds int
		chunk   int
		want    int
	}{
		{10, 30, 1},
		{30, 30, 1},
		{31, 30, 2},
		{90, 30, 3},
		{65, 10, 7},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%ds/%ds", tt.seconds, tt.chunk), func(t *testing.T) {
			path := writeRecording(t, t.TempDir(), "a.wav", tt.seconds)
			rec := newFakeRecognizer()

			_, err := newTestTranscriber(rec, t.TempDir(), 2).Transcribe(context.Background(), path, tt.chunk)
			require.NoError(t, err)

			assert.Equal(t, tt.want, rec.callCount())
			total := 0
			for _, c := range rec.calls {
				total += c.frames
			}
			assert.Equal(t, tt.seconds*testRate, total, "chunk durations must add up to the recording")
		})
	}
}

func TestTranscribeOrderIndependentOfCompletion(t *testing.T) {
	path := writeRecording(t, t.TempDir(), "meeting.wav", 65)

	// Chunks finish in reverse: 60s first, then 30s, then 0s.
	done30 := make(chan struct{})
	done60 := make(chan struct{})
	var order []int
	var mu sync.Mutex

	rec := newFakeRecognizer()
	rec.hook = func(startSec int) {
		switch startSec {
		case 0:
			<-done30
		case 30:
			<-done60
		}
		mu.Lock()
		order = append(order, startSec)
		mu.Unlock()
		switch startSec {
		case 30:
			close(done30)
		case 60:
			close(done60)
		}
	}

	text, err := newTestTranscriber(rec, t.TempDir(), 3).Transcribe(context.Background(), path, 30)
	require.NoError(t, err)

	assert.Equal(t, []int{60, 30, 0}, order)
	assert.Equal(t, "part0 part30 part60", text)
}

func TestTranscribeUsesUniqueChunkPaths(t *testing.T) {
	path := writeRecording(t, t.TempDir(), "meeting.wav", 95)
	rec := newFakeRecognizer()

	_, err := newTestTranscriber(rec, t.TempDir(), 4).Transcribe(context.Background(), path, 10)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, c := range rec.calls {
		assert.False(t, seen[c.path], "chunk path %s reused", c.path)
		seen[c.path] = true
	}
}

func TestTranscribeCachesByContent(t *testing.T) {
	dir := t.TempDir()
	first := writeRecording(t, dir, "first.wav", 40)
	copyPath := filepath.Join(dir, "copy.wav")
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(copyPath, data, 0644))

	rec := newFakeRecognizer()
	tr := newTestTranscriber(rec, t.TempDir(), 1)
	ctx := context.Background()

	text1, err := tr.Transcribe(ctx, first, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.callCount())

	text2, err := tr.Transcribe(ctx, copyPath, 30)
	require.NoError(t, err)
	assert.Equal(t, text1, text2)
	assert.Equal(t, 2, rec.callCount(), "identical content must be served from cache")

	_, err = tr.Transcribe(ctx, first, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.callCount(), "a different chunk length is a different cache entry")
}

func TestTranscribeCacheNotFooledBySamePath(t *testing.T) {
	dir := t.TempDir()
	rec := newFakeRecognizer()
	tr := newTestTranscriber(rec, t.TempDir(), 1)
	ctx := context.Background()

	path := writeRecording(t, dir, "temp_audio.wav", 10)
	text1, err := tr.Transcribe(ctx, path, 30)
	require.NoError(t, err)
	assert.Equal(t, "part0", text1)

	// Overwrite the same path with a different recording.
	stream := &audio.Stream{SampleRate: testRate, Channels: 1, BitDepth: 16}
	for i := 0; i < 5*testRate; i++ {
		stream.Data = append(stream.Data, 7)
	}
	require.NoError(t, stream.WriteWindow(path, audio.Window{Start: 0, End: stream.Frames()}))

	text2, err := tr.Transcribe(ctx, path, 30)
	require.NoError(t, err)
	assert.Equal(t, "part7", text2)
}

func TestTranscribeConcurrentCallsShareWork(t *testing.T) {
	path := writeRecording(t, t.TempDir(), "meeting.wav", 60)
	rec := newFakeRecognizer()
	tr := newTestTranscriber(rec, t.TempDir(), 2)

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := tr.Transcribe(context.Background(), path, 30)
			assert.NoError(t, err)
			results[i] = text
		}()
	}
	wg.Wait()

	for _, text := range results {
		assert.Equal(t, "part0 part30", text)
	}
	assert.Equal(t, 2, rec.callCount())
}

// waitForWaiters blocks until n callers share the open run for key
func waitForWaiters(t *testing.T, tr *implTranscriber, key string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		f, ok := tr.flights[key]
		return ok && f.waiters == n
	}, 5*time.Second, 5*time.Millisecond)
}

func TestTranscribeSharedRunSurvivesCallerCancel(t *testing.T) {
	path := writeRecording(t, t.TempDir(), "meeting.wav", 60)
	digest, err := fileDigest(path)
	require.NoError(t, err)
	key := cacheKey(digest, 30)

	rec := newFakeRecognizer()
	rec.entered = make(chan int, 4)
	rec.release = make(chan struct{})
	tempDir := t.TempDir()
	tr := newTestTranscriber(rec, tempDir, 1).(*implTranscriber)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := tr.Transcribe(ctxA, path, 30)
		errA <- err
	}()
	assert.Equal(t, 0, <-rec.entered)

	type outcome struct {
		text string
		err  error
	}
	resB := make(chan outcome, 1)
	go func() {
		text, err := tr.Transcribe(context.Background(), path, 30)
		resB <- outcome{text, err}
	}()
	waitForWaiters(t, tr, key, 2)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)
	close(rec.release)

	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "part0 part30", b.text)
	assert.Equal(t, 2, rec.callCount(), "the run is shared, not restarted")
	assertEmptyDir(t, tempDir)
}

func TestTranscribeRunCancelledWhenEveryCallerLeaves(t *testing.T) {
	path := writeRecording(t, t.TempDir(), "meeting.wav", 60)
	rec := newFakeRecognizer()
	rec.entered = make(chan int, 4)
	rec.release = make(chan struct{})
	tempDir := t.TempDir()
	tr := newTestTranscriber(rec, tempDir, 1).(*implTranscriber)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := tr.Transcribe(ctx, path, 30)
		errCh <- err
	}()
	<-rec.entered

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	// the detached run observes the cancellation and stops before the second chunk
	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(tempDir)
		return err == nil && len(entries) == 0
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, rec.callCount())

	tr.mu.Lock()
	assert.Empty(t, tr.flights)
	tr.mu.Unlock()
}

func TestTranscribeChunkFailureAborts(t *testing.T) {
	path := writeRecording(t, t.TempDir(), "meeting.wav", 65)
	tempDir := t.TempDir()

	rec := newFakeRecognizer()
	rec.failAt = 30
	tr := newTestTranscriber(rec, tempDir, 1)

	_, err := tr.Transcribe(context.Background(), path, 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrTranscription)

	var chunkErr *failure.ChunkError
	require.ErrorAs(t, err, &chunkErr)
	assert.Equal(t, 1, chunkErr.Index)
	assert.Equal(t, 30*time.Second, chunkErr.Offset)
	assertEmptyDir(t, tempDir)

	// Failures are not cached: a healthy model gets a fresh run.
	rec.failAt = -1
	text, err := tr.Transcribe(context.Background(), path, 30)
	require.NoError(t, err)
	assert.Equal(t, "part0 part30 part60", text)
}

func TestTranscribeInvalidInput(t *testing.T) {
	dir := t.TempDir()
	tr := newTestTranscriber(newFakeRecognizer(), t.TempDir(), 1)
	ctx := context.Background()

	path := writeRecording(t, dir, "a.wav", 5)
	_, err := tr.Transcribe(ctx, path, 0)
	assert.ErrorIs(t, err, failure.ErrInvalidArgument)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("not audio at all"), 0644))
	_, err = tr.Transcribe(ctx, junk, 30)
	assert.ErrorIs(t, err, failure.ErrMediaDecode)

	_, err = tr.Transcribe(ctx, filepath.Join(dir, "missing.wav"), 30)
	assert.Error(t, err)
}

func TestAssemble(t *testing.T) {
	assert.Equal(t, "a b c", Assemble([]string{" a ", "b\n", "\tc"}))
	assert.Equal(t, "", Assemble(nil))
	assert.Equal(t, "only", Assemble([]string{"  only  "}))
}

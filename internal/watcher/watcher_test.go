package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan string, 16)}
}

func (r *recorder) handle(ctx context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- path
	return nil
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case p := <-r.seen:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
		return ""
	}
}

func startWatcher(t *testing.T, dir string, handler EventHandler) {
	t.Helper()

	w, err := New(dir, []string{"mp3", ".WAV", "mp4"}, handler, logger.Nop(), 2)
	require.NoError(t, err)
	w.(*implWatcher).settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
		assert.NoError(t, w.Stop())
	})
}

func TestIsRecording(t *testing.T) {
	w := &implWatcher{exts: map[string]struct{}{"mp3": {}, "wav": {}, "mp4": {}}}

	tests := []struct {
		path string
		want bool
	}{
		{"/in/meeting.mp3", true},
		{"/in/meeting.WAV", true},
		{"/in/meeting.mp4", true},
		{"/in/meeting.mkv", false},
		{"/in/notes.txt", false},
		{"/in/.meeting.mp3", false},
		{"/in/meeting", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.isRecording(tt.path))
		})
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), []string{"mp3"}, newRecorder().handle, logger.Nop(), 1)
	assert.Error(t, err)
}

func TestWatcherHandlesNewRecordings(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, dir, rec.handle)

	// give the watch loop a moment before files arrive
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meeting.mp3"), []byte("x"), 0644))

	assert.Equal(t, filepath.Join(dir, "meeting.mp3"), rec.wait(t))

	select {
	case p := <-rec.seen:
		t.Fatalf("unexpected handler call for %s", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherPicksUpPendingRecordings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pending.wav"), []byte("x"), 0644))

	rec := newRecorder()
	startWatcher(t, dir, rec.handle)

	assert.Equal(t, filepath.Join(dir, "pending.wav"), rec.wait(t))
}

func TestDispatchSkipsInflightPath(t *testing.T) {
	w := &implWatcher{
		handler:   func(ctx context.Context, path string) error { return nil },
		logger:    logger.Nop(),
		semaphore: make(chan struct{}, 1),
		inflight:  map[string]struct{}{"/in/a.mp3": {}},
	}

	require.NoError(t, w.dispatch(context.Background(), "/in/a.mp3"))
	assert.Empty(t, w.semaphore, "a busy path must not take a slot")
}

type fakeProcessor struct {
	result *session.Result
	err    error
}

func (f *fakeProcessor) ProcessFile(ctx context.Context, path string) (*session.Result, error) {
	return f.result, f.err
}

func TestSessionHandler(t *testing.T) {
	tests := []struct {
		name         string
		proc         *fakeProcessor
		wantErr      error
		wantOutputs  bool
		wantArchived bool
	}{
		{
			name: "success",
			proc: &fakeProcessor{result: &session.Result{
				Transcript: "we approved the budget",
				Bullets:    []string{"Decision: budget approved"},
			}},
			wantOutputs:  true,
			wantArchived: true,
		},
		{
			name: "summary failure keeps transcript and recording",
			proc: &fakeProcessor{
				result: &session.Result{Transcript: "we approved the budget"},
				err:    &session.StageError{Stage: session.StageSummarize, Err: failure.ErrSummaryGeneration},
			},
			wantErr:     failure.ErrSummaryGeneration,
			wantOutputs: true,
		},
		{
			name: "decode failure writes nothing",
			proc: &fakeProcessor{
				result: &session.Result{},
				err:    &session.StageError{Stage: session.StageNormalize, Err: failure.ErrMediaDecode},
			},
			wantErr: failure.ErrMediaDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			inbox := filepath.Join(root, "input")
			out := filepath.Join(root, "output")
			archived := filepath.Join(root, "archived")
			require.NoError(t, os.MkdirAll(inbox, 0755))
			src := filepath.Join(inbox, "standup.mp4")
			require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

			handler := NewSessionHandler(tt.proc, out, archived, logger.Nop())
			err := handler(context.Background(), src)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			for _, name := range []string{"standup.txt", "standup.md", "standup.docx"} {
				_, statErr := os.Stat(filepath.Join(out, name))
				assert.Equal(t, tt.wantOutputs, statErr == nil, name)
			}

			_, srcErr := os.Stat(src)
			_, archErr := os.Stat(filepath.Join(archived, "standup.mp4"))
			assert.Equal(t, tt.wantArchived, errors.Is(srcErr, os.ErrNotExist))
			assert.Equal(t, tt.wantArchived, archErr == nil)
		})
	}
}

func TestMoveToArchivedAvoidsOverwrite(t *testing.T) {
	root := t.TempDir()
	archived := filepath.Join(root, "archived")
	require.NoError(t, os.MkdirAll(archived, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(archived, "a.mp3"), []byte("old"), 0644))

	src := filepath.Join(root, "a.mp3")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))

	dest, err := moveToArchived(src, archived)
	require.NoError(t, err)
	assert.NotEqual(t, filepath.Join(archived, "a.mp3"), dest)

	old, err := os.ReadFile(filepath.Join(archived, "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

package transcriber

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/golang/groupcache/lru"
)

// memo is a size-bounded transcript cache safe for concurrent use.
// A nil memo caches nothing.
type memo struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// newMemo returns nil when entries is negative, disabling the cache
func newMemo(entries int) *memo {
	if entries < 0 {
		return nil
	}
	return &memo{lru: lru.New(entries)}
}

func (m *memo) get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.lru.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (m *memo) add(key, transcript string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lru.Add(key, transcript)
}

// cacheKey identifies a transcript by audio content, never by path
func cacheKey(digest string, chunkLengthSec int) string {
	return fmt.Sprintf("%s:%d", digest, chunkLengthSec)
}

// fileDigest returns the hex SHA-256 of the file contents
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash audio: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

package watcher

import "context"

// Watcher monitors an inbox directory and hands each new recording to a handler
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one recording found in the inbox
type EventHandler func(ctx context.Context, filePath string) error

package web

import (
	"context"
	"net/http"
)

// Server serves the upload UI and the JSON API
type Server interface {
	// Run listens on the configured address until ctx is done, then shuts down gracefully
	Run(ctx context.Context) error
	// Handler exposes the router, mainly for tests
	Handler() http.Handler
}

package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs name with args and returns its stdout. A non-zero exit
	// status is reported as an *ExitError.
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
)

// persistUpload copies the upload into the session directory, stopping once it
// passes the size ceiling
func (p *implOrchestrator) persistUpload(ctx context.Context, r io.Reader, path string) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}

	limit := p.cfg.MaxUploadBytes()
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write upload file: %w", err)
	}
	if limit > 0 && n > limit {
		return n, fmt.Errorf("%w: upload exceeds %d MB", failure.ErrUploadTooLarge, p.cfg.Upload.MaxSizeMB)
	}

	p.logger.Debug(ctx, "Upload persisted: %s (%d bytes)", path, n)
	return n, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implOrchestrator) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return
		}
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

// cleanupSessionDir removes the session directory and anything left in it
func (p *implOrchestrator) cleanupSessionDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup session dir %s: %v", dir, err)
	}
}

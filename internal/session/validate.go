package session

import (
	"fmt"
	"slices"

	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
	"github.com/nguyentantai21042004/minutes-flow/internal/media"
)

// Validate rejects uploads with an unknown extension or above the size ceiling.
// A size below zero means unknown and is not checked.
func (p *implOrchestrator) Validate(filename string, size int64) error {
	ext := media.Ext(filename)
	if !slices.Contains(p.cfg.Upload.Extensions, ext) {
		return fmt.Errorf("%w: %q (accepted: %v)", failure.ErrUnsupportedExtension, ext, p.cfg.Upload.Extensions)
	}

	if limit := p.cfg.MaxUploadBytes(); limit > 0 && size > limit {
		return fmt.Errorf("%w: %d bytes exceeds %d MB", failure.ErrUploadTooLarge, size, p.cfg.Upload.MaxSizeMB)
	}

	return nil
}

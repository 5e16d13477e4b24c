package domain

import (
	"context"
	"fmt"
)

// ResolveErrorReason classifies why the blob backend could not produce a
// URL. Callers use it to decide on fallback, never to abort.
type ResolveErrorReason string

const (
	ResolveNotConfigured ResolveErrorReason = "not_configured"
	ResolveBadConfig     ResolveErrorReason = "bad_config"
	ResolveNotFound      ResolveErrorReason = "not_found"
	ResolveTimeout       ResolveErrorReason = "timeout"
	ResolveBackendError  ResolveErrorReason = "backend_error"
)

// ResolveError is the typed failure of a blob URL resolution. The media
// resolver translates any ResolveError into the deterministic local-path
// fallback; it never propagates upward.
type ResolveError struct {
	Reason ResolveErrorReason
	Folder string
	Token  string
	Err    error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %s/%s: %s: %v", e.Folder, e.Token, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolve %s/%s: %s", e.Folder, e.Token, e.Reason)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewResolveError creates a typed resolution failure.
func NewResolveError(reason ResolveErrorReason, folder, token string, err error) *ResolveError {
	return &ResolveError{Reason: reason, Folder: folder, Token: token, Err: err}
}

// BlobStorage is the port to the external blob backend. Only URL
// resolution belongs to the ingestion pipeline; upload, listing and
// deletion live behind the excluded admin surface.
type BlobStorage interface {
	// ResolveURL maps a (folder, token) pair to a durable display URL.
	// Failures are returned as *ResolveError.
	ResolveURL(ctx context.Context, folder, token string) (string, error)
}

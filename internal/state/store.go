package state

import (
	"context"
	"time"
)

// Entry is the last known good state of one document.
type Entry struct {
	Path        string
	Fingerprint string
	Signature   string
	UpdatedAt   time.Time
}

// Store persists entries between runs.
type Store interface {
	Get(ctx context.Context, path string) (*Entry, error)
	Put(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, path string) error
	Close() error
}

// Fresh reports whether e still describes a document with the given
// fingerprint processed under signature.
func (e *Entry) Fresh(fingerprint, signature string) bool {
	return e != nil && e.Fingerprint == fingerprint && e.Signature == signature
}

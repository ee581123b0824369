package domain

import (
	"context"
	"io"
	"time"
)

// KVStore abstracts the durable key-value storage the profile store mirrors
// its state into. The whole profile collection lives under a single key.
type KVStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
}

// Upload is a file handed in by the presentation layer.
type Upload struct {
	Name    string // Original file name, may be empty
	Content io.Reader
}

// FileReader reads an upload in full and encodes it as a data URI.
// Failures wrap ErrFileRead.
type FileReader interface {
	ReadDataURI(ctx context.Context, upload *Upload) (DataURI, error)
}

// IDGenerator produces globally unique opaque identifiers.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

package domain

import "context"

// Database defines lifecycle operations for a relational storage backend.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

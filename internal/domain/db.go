package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own schema setup,
// ensuring the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	// Replace atomically swaps the contents of every table for the snapshot.
	Replace(ctx context.Context, snap *Snapshot) error
	Close() error
}

// Snapshot is a complete table set, used to seed or reset the store.
type Snapshot struct {
	Users []User
	Posts []Post
	Votes []Vote
}

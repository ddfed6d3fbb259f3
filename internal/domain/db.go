package domain

import "context"

// Database is the lifecycle surface main wires against: migrate the
// cycle-tracking schema at startup, close on shutdown. The SQLite store
// implements it; a server-backed store could replace it without touching
// the services.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// Package storage provides the durable key-value store that backs sessions and settings.
package storage

import (
	"context"
	"fmt"
)

// Keys of the logical records kept in the store.
const (
	KeySessions     = "sessions"
	KeySettings     = "settings"
	KeyPlanOverride = "plan-override" // reserved
)

// Store is a durable string key-value store. Values are JSON documents.
// Get reports found=false for an absent key without an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	Driver string // sqlite, postgres, file, memory
	Path   string // directory for sqlite and file
	DSN    string // postgres connection string
}

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "sqlite":
		return OpenSQLite(opts.Path)
	case "postgres":
		return OpenPostgres(ctx, opts.DSN)
	case "file":
		return NewFileStore(opts.Path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

package store

import (
	"fmt"
	"path/filepath"
)

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"bolt"   - bbolt database at dataDir/kv.db (default)
//	"sqlite" - SQLite database at dataDir/kv.db
//	"file"   - one file per key under dataDir
//	"memory" - In-memory (ephemeral, for testing)
func New(backend, dataDir string) (Store, error) {
	switch backend {
	case "bolt", "":
		return NewBoltStore(filepath.Join(dataDir, "kv.db"))
	case "sqlite":
		return NewSqliteStore(filepath.Join(dataDir, "kv.db"))
	case "file":
		return NewFileStore(dataDir)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: bolt, sqlite, file, memory)", backend)
	}
}

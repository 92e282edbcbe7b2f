package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ReservedKeys are never written by Seed.
var ReservedKeys = map[string]bool{"websites": true}

// Seed copies every regular file under dir into s, keyed by its
// slash-separated path relative to dir. It returns the number of keys written.
func Seed(ctx context.Context, s Store, dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if ReservedKeys[key] {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := s.Put(ctx, key, data); err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		n++
		return nil
	})
	return n, err
}

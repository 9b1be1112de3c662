// cache/cache.go
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeydtaylor/strada-core/pkg/route"
	"go.uber.org/zap"
)

// Cache persists a route table to disk so repeated startups skip the
// controller scan. The record's freshness timestamp is the cache file's
// own modification time; there is no explicit version field.
type Cache struct {
	path   string
	minAge time.Duration
	log    *zap.Logger
}

func New(path string, minAge time.Duration, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{path: path, minAge: minAge, log: log}
}

// MinAge is the window during which a loaded record is trusted without
// checking controller modification times.
func (c *Cache) MinAge() time.Duration { return c.minAge }

// Path returns the cache file location.
func (c *Cache) Path() string { return c.path }

// Load reads and validates the persisted table. A missing or corrupt
// record is a miss, never an error; the caller falls through to a
// rebuild.
func (c *Cache) Load() (route.Table, time.Time, bool) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return nil, time.Time{}, false
	}
	t, err := route.Decode(b)
	if err != nil {
		c.log.Warn("route cache unreadable, will rebuild",
			zap.String("path", c.path),
			zap.Error(err),
		)
		return nil, time.Time{}, false
	}
	fi, err := os.Stat(c.path)
	if err != nil {
		return nil, time.Time{}, false
	}
	return t, fi.ModTime(), true
}

// Store overwrites the record with a full rewrite via temp-file +
// rename, so a concurrent reader never sees a truncated table. The
// rewrite resets the record's timestamp, restarting the min-age window.
func (c *Cache) Store(t route.Table) error {
	b, err := t.Encode()
	if err != nil {
		return fmt.Errorf("route cache encode: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("route cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("route cache temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("route cache write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("route cache close: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("route cache replace: %w", err)
	}
	return nil
}

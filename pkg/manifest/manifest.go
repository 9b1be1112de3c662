// manifest/manifest.go
package manifest

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

/* ===========================
   Top-level config
   =========================== */

type Config struct {
	Controllers Controllers `toml:"controllers"`
	Cache       CacheConfig `toml:"cache"`
}

// Controllers locates the directory the discovery scanner walks.
type Controllers struct {
	Dir string `toml:"dir"`
}

// CacheConfig controls the persisted route table. MinAgeSeconds is the
// window during which a cache record is trusted without re-checking
// controller modification times.
type CacheConfig struct {
	File          string `toml:"file"`
	MinAgeSeconds int    `toml:"min_age_seconds"`
}

const (
	DefaultCacheFile     = "cache/routes.json"
	DefaultMinAgeSeconds = 3600
)

func (c CacheConfig) MinAge() time.Duration {
	return time.Duration(c.MinAgeSeconds) * time.Second
}

/* ===========================
   Validation / Normalization
   =========================== */

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Controllers.Dir) == "" {
		return errors.New("controllers.dir is required")
	}
	c.Controllers.Dir = filepath.Clean(c.Controllers.Dir)

	if strings.TrimSpace(c.Cache.File) == "" {
		c.Cache.File = DefaultCacheFile
	}
	c.Cache.File = filepath.Clean(c.Cache.File)
	if c.Cache.MinAgeSeconds == 0 {
		c.Cache.MinAgeSeconds = DefaultMinAgeSeconds
	}
	if c.Cache.MinAgeSeconds < 0 {
		return errors.New("cache.min_age_seconds must be >= 0")
	}
	return nil
}

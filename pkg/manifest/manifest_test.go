package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresControllersDir(t *testing.T) {
	var c Config
	require.ErrorContains(t, c.Validate(), "controllers.dir is required")

	c.Controllers.Dir = "   "
	require.Error(t, c.Validate())
}

func TestValidateAppliesDefaults(t *testing.T) {
	c := Config{Controllers: Controllers{Dir: "controllers"}}
	require.NoError(t, c.Validate())

	assert.Equal(t, DefaultCacheFile, c.Cache.File)
	assert.Equal(t, DefaultMinAgeSeconds, c.Cache.MinAgeSeconds)
	assert.Equal(t, time.Hour, c.Cache.MinAge())
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	c := Config{
		Controllers: Controllers{Dir: "app/controllers/"},
		Cache:       CacheConfig{File: "tmp/routes.json", MinAgeSeconds: 60},
	}
	require.NoError(t, c.Validate())

	assert.Equal(t, "app/controllers", c.Controllers.Dir)
	assert.Equal(t, "tmp/routes.json", c.Cache.File)
	assert.Equal(t, time.Minute, c.Cache.MinAge())
}

func TestValidateRejectsNegativeMinAge(t *testing.T) {
	c := Config{
		Controllers: Controllers{Dir: "controllers"},
		Cache:       CacheConfig{MinAgeSeconds: -1},
	}
	require.ErrorContains(t, c.Validate(), "min_age_seconds")
}

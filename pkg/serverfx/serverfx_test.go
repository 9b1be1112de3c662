package serverfx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/strada-core/pkg/cache"
	"github.com/joeydtaylor/strada-core/pkg/controller"
	"github.com/joeydtaylor/strada-core/pkg/core"
	"github.com/joeydtaylor/strada-core/pkg/discover"
	"github.com/joeydtaylor/strada-core/pkg/middleware/logger"
	"github.com/joeydtaylor/strada-core/pkg/middleware/metrics"
	"github.com/joeydtaylor/strada-core/pkg/transport/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideAppWiring(t *testing.T) {
	controller.MustRegister("sfx.Hello",
		controller.Descriptor{Path: "/hello"},
		func() controller.Controller {
			return controller.Map{
				controller.GET: func(ctx context.Context) (controller.Result, error) {
					return controller.Result{Body: []byte("hi")}, nil
				},
			}
		})

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.go"), []byte("package sfx\n"), 0o644))

	s, err := discover.New(root)
	require.NoError(t, err)
	r, err := core.New(s, cache.New(filepath.Join(t.TempDir(), "routes.json"), time.Hour, nil), nil)
	require.NoError(t, err)

	app := provideApp(appDeps{
		LogMW:   &logger.Middleware{},
		Metrics: metrics.ProvideMetrics(),
		Core:    r,
		R:       httpx.NewChi(),
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", w.Body.String())

	// Heartbeat and metrics endpoints sit outside the dispatcher.
	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "route_table_size")

	// Unknown paths fall through to the dispatcher's 404.
	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "404 Not Found", w.Body.String())
}

func TestEnvOr(t *testing.T) {
	t.Setenv("SERVERFX_TEST_KEY", "set")
	assert.Equal(t, "set", envOr("SERVERFX_TEST_KEY", "def"))
	assert.Equal(t, "def", envOr("SERVERFX_TEST_MISSING", "def"))
}

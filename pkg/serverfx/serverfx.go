package serverfx

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/strada-core/pkg/cache"
	"github.com/joeydtaylor/strada-core/pkg/core"
	"github.com/joeydtaylor/strada-core/pkg/discover"
	"github.com/joeydtaylor/strada-core/pkg/middleware/logger"
	"github.com/joeydtaylor/strada-core/pkg/middleware/metrics"
	"github.com/joeydtaylor/strada-core/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Options allow per-service env keys/defaults without code duplication.
type Options struct {
	Service         string // "hello", etc.
	ManifestEnv     string // e.g. "STRADA_MANIFEST"
	DefaultManifest string // e.g. "manifest.toml"
	ListenAddrEnv   string // e.g. "SERVER_LISTEN_ADDRESS"
	DefaultListen   string // e.g. ":4000"
	TLSCertEnv      string // e.g. "SSL_SERVER_CERTIFICATE"
	TLSKeyEnv       string // e.g. "SSL_SERVER_KEY"
}

// ---- Dispatcher ----

type coreDeps struct {
	fx.In

	Opts Options
	Log  *zap.Logger
}

func provideCore(d coreDeps) (*core.Router, error) {
	cfgPath := envOr(d.Opts.ManifestEnv, d.Opts.DefaultManifest)
	cfg, err := core.LoadConfig(cfgPath)
	if err != nil {
		d.Log.Error("manifest load failed", zap.Error(err), zap.String("path", cfgPath))
		return nil, err
	}

	scanner, err := discover.New(cfg.Controllers.Dir)
	if err != nil {
		return nil, err
	}
	rc := cache.New(cfg.Cache.File, cfg.Cache.MinAge(), d.Log)
	return core.New(scanner, rc, d.Log)
}

// ---- App handler ----

type appDeps struct {
	fx.In

	LogMW *logger.Middleware

	Metrics http.Handler `name:"metrics"`

	Core *core.Router
	R    httpx.Router
}

func provideApp(d appDeps) http.Handler {
	r := d.R
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}
	r.Use(metrics.Collect())

	r.Handle(http.MethodGet, "/metrics", d.Metrics)

	// Everything else flows through the dispatcher.
	r.Mount("/", d.Core)
	return r.Mux()
}

// ---- Server lifecycle ----

type serverDeps struct {
	fx.In
	Opts   Options
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	addr := envOr(d.Opts.ListenAddrEnv, d.Opts.DefaultListen)
	cert := os.Getenv(d.Opts.TLSCertEnv)
	key := os.Getenv(d.Opts.TLSKeyEnv)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && err != http.ErrServerClosed {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", addr),
				)
				go func() {
					srv.TLSConfig = nil
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---- Public Fx module ----

func Module(opts Options) fx.Option {
	return fx.Options(
		// Supply options to DI.
		fx.Supply(opts),

		// Middleware modules
		logger.Module,

		// Metrics (named)
		fx.Provide(fx.Annotate(metrics.ProvideMetrics, fx.ResultTags(`name:"metrics"`))),

		// Mux implementation
		fx.Provide(httpx.NewChi),

		// Dispatcher
		fx.Provide(provideCore),

		// App handler (named "app")
		fx.Provide(
			fx.Annotate(
				provideApp,
				fx.ResultTags(`name:"app"`),
			),
		),

		// App lifecycle (starts the HTTP server)
		fx.Invoke(registerHooks),
	)
}

// ---- helpers ----

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

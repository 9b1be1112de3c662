// core/router.go
package core

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/strada-core/pkg/cache"
	"github.com/joeydtaylor/strada-core/pkg/controller"
	"github.com/joeydtaylor/strada-core/pkg/discover"
	hmetrics "github.com/joeydtaylor/strada-core/pkg/middleware/metrics"
	"github.com/joeydtaylor/strada-core/pkg/route"
	"go.uber.org/zap"
)

// Router owns the route table and dispatches requests against it. The
// table is swapped whole on every rebuild; in-flight readers keep the
// snapshot they started with.
type Router struct {
	scanner *discover.Scanner
	cache   *cache.Cache
	log     *zap.Logger
	table   atomic.Pointer[route.Table]
}

var notFound = controller.Result{Status: http.StatusNotFound, Body: []byte("404 Not Found")}

// New builds a Router from a validated manifest config: the controller
// root must exist, then the route table is loaded from cache or rebuilt.
func New(scanner *discover.Scanner, c *cache.Cache, log *zap.Logger) (*Router, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{scanner: scanner, cache: c, log: log}
	if err := r.Refresh(false); err != nil {
		return nil, err
	}
	return r, nil
}

// Refresh establishes the current route table. With force=false the
// cache is consulted first: a record younger than the min-age window is
// trusted outright; past the window it is re-validated against
// controller modification times. With force=true both checks are
// bypassed and the table is rebuilt from a full scan.
func (r *Router) Refresh(force bool) error {
	if !force {
		if t, ts, ok := r.cache.Load(); ok {
			if time.Since(ts) < r.cache.MinAge() {
				r.swap(t)
				hmetrics.RecordCacheHit()
				return nil
			}
			changed, err := r.scanner.ChangedSince(ts)
			if err == nil && !changed {
				r.swap(t)
				hmetrics.RecordCacheHit()
				return nil
			}
		}
	}
	hmetrics.RecordCacheMiss()

	entries, err := r.scanner.Scan()
	if err != nil {
		return err
	}
	t := route.Build(entries)
	r.swap(t)
	hmetrics.RecordRebuild()
	if err := r.cache.Store(t); err != nil {
		// The in-memory table is already current; a write failure only
		// costs the next startup a rescan.
		r.log.Warn("route cache store failed", zap.Error(err))
	}
	r.log.Info("route table rebuilt",
		zap.Int("routes", t.Len()),
		zap.String("controllers", r.scanner.Root()),
	)
	return nil
}

func (r *Router) swap(t route.Table) {
	r.table.Store(&t)
	hmetrics.SetRouteCount(t.Len())
}

// Table returns the current route table snapshot.
func (r *Router) Table() route.Table {
	if p := r.table.Load(); p != nil {
		return *p
	}
	return nil
}

// Descriptor exposes the registered routing metadata for a controller
// ID, middleware identifiers included.
func (r *Router) Descriptor(id string) (controller.Descriptor, bool) {
	b, ok := controller.Resolve(id)
	if !ok {
		return controller.Descriptor{}, false
	}
	return b.Desc, true
}

// Dispatch resolves (method, rawPath) to a controller action and runs
// it. A missing route or unsupported verb is a plain 404 result; a
// route bound to an unregistered or unconstructible controller is a
// configuration error and comes back as err.
func (r *Router) Dispatch(ctx context.Context, method, rawPath string) (controller.Result, error) {
	verb, ok := controller.ParseVerb(method)
	if !ok {
		return notFound, nil
	}
	p := route.NormalizePath(rawPath)

	id, ok := r.Table().Lookup(verb, p)
	if !ok {
		return notFound, nil
	}
	b, ok := controller.Resolve(id)
	if !ok {
		return controller.Result{}, fmt.Errorf("route %s %s: controller %q not registered", verb, p, id)
	}
	inst := b.New()
	if inst == nil {
		return controller.Result{}, fmt.Errorf("route %s %s: controller %q constructor returned nil", verb, p, id)
	}
	act, ok := inst.Action(verb)
	if !ok {
		// Only reachable if the table was bound against a different
		// controller shape than the registry now holds.
		return notFound, nil
	}
	return act(ctx)
}

// ServeHTTP adapts Dispatch to the ambient request/response: method
// defaults to GET, path to "/", and the only output is a status code
// and body.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	rawPath := req.URL.Path
	if rawPath == "" {
		rawPath = "/"
	}
	res, err := r.Dispatch(req.Context(), method, rawPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(res.Body)
}

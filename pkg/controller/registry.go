// controller/registry.go
package controller

import (
	"fmt"
	"strings"
	"sync"
)

// Binding ties a fully-qualified controller ID to its descriptor and a
// zero-argument constructor.
type Binding struct {
	ID   string
	Desc Descriptor
	New  func() Controller
}

var (
	regMu    sync.RWMutex
	registry = map[string]Binding{}
)

// Register makes a controller resolvable under an ID referenced by the
// discovery scanner, e.g. "controllers.Home". Controllers call this from
// init so the registry is complete before any scan runs.
func Register(id string, d Descriptor, ctor func() Controller) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("controller id required")
	}
	if strings.TrimSpace(d.Path) == "" {
		return fmt.Errorf("controller %q: descriptor path required", id)
	}
	if !strings.HasPrefix(d.Path, "/") {
		return fmt.Errorf("controller %q: descriptor path %q must start with /", id, d.Path)
	}
	if ctor == nil {
		return fmt.Errorf("controller %q: constructor required", id)
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := registry[id]; ok {
		return fmt.Errorf("controller %q already registered", id)
	}
	registry[id] = Binding{ID: id, Desc: d, New: ctor}
	return nil
}

func MustRegister(id string, d Descriptor, ctor func() Controller) {
	if err := Register(id, d, ctor); err != nil {
		panic(err)
	}
}

// Resolve retrieves a registered binding by ID.
func Resolve(id string) (Binding, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := registry[id]
	return b, ok
}

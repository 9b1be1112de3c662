// route/table.go
package route

import (
	"strings"

	"github.com/joeydtaylor/strada-core/pkg/controller"
)

// Entry is one (verb, path) binding produced by a controller scan.
type Entry struct {
	Verb         controller.Verb
	Path         string
	ControllerID string
}

// Table maps verb -> path -> controller ID. It is built whole and read
// concurrently; never mutate a Table after publishing it.
type Table map[controller.Verb]map[string]string

// Build folds scan entries into a Table. Duplicate (verb, path) pairs
// resolve to the last entry in scan order; the scan order itself is
// filesystem-dependent, so duplicates are a known ambiguity rather than
// an error.
func Build(entries []Entry) Table {
	t := Table{}
	for _, e := range entries {
		t.set(e.Verb, e.Path, e.ControllerID)
	}
	return t
}

func (t Table) set(v controller.Verb, path, id string) {
	m, ok := t[v]
	if !ok {
		m = map[string]string{}
		t[v] = m
	}
	m[path] = id
}

// Lookup returns the controller ID bound to (verb, path), if any.
func (t Table) Lookup(v controller.Verb, path string) (string, bool) {
	m, ok := t[v]
	if !ok {
		return "", false
	}
	id, ok := m[path]
	return id, ok
}

// Len counts bound (verb, path) pairs.
func (t Table) Len() int {
	n := 0
	for _, m := range t {
		n += len(m)
	}
	return n
}

// NormalizePath reduces a raw request path to lookup form: the query
// component is dropped, trailing slashes are stripped, and an empty
// remainder becomes "/".
func NormalizePath(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimRight(raw, "/")
	if raw == "" {
		return "/"
	}
	return raw
}

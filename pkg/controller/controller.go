// controller/controller.go
package controller

import (
	"context"
	"strings"
)

// Verb is one of the six HTTP methods a controller action can bind to.
type Verb string

const (
	GET     Verb = "GET"
	POST    Verb = "POST"
	PUT     Verb = "PUT"
	DELETE  Verb = "DELETE"
	PATCH   Verb = "PATCH"
	OPTIONS Verb = "OPTIONS"
)

// Verbs lists every dispatchable verb in probe order.
var Verbs = [...]Verb{GET, POST, PUT, DELETE, PATCH, OPTIONS}

// ParseVerb maps a method string (any case) onto a supported Verb.
func ParseVerb(s string) (Verb, bool) {
	switch Verb(strings.ToUpper(strings.TrimSpace(s))) {
	case GET:
		return GET, true
	case POST:
		return POST, true
	case PUT:
		return PUT, true
	case DELETE:
		return DELETE, true
	case PATCH:
		return PATCH, true
	case OPTIONS:
		return OPTIONS, true
	}
	return "", false
}

// Result is what an action hands back to the dispatcher. A zero Status
// is written as 200.
type Result struct {
	Status int
	Body   []byte
}

// Action handles one verb on one controller instance.
type Action func(ctx context.Context) (Result, error)

// Controller exposes its actions by verb. Returning ok=false means the
// verb is not supported by this controller.
type Controller interface {
	Action(v Verb) (Action, bool)
}

// Map is the convenience Controller: a literal verb -> action table.
type Map map[Verb]Action

func (m Map) Action(v Verb) (Action, bool) {
	a, ok := m[v]
	return a, ok
}

// Descriptor is the declarative routing metadata attached to a
// controller: a URL path, an optional display name, and an ordered list
// of middleware identifiers. Middleware execution is not part of this
// core; the identifiers are carried so callers can act on them.
type Descriptor struct {
	Path       string
	Name       string
	Middleware []string
}

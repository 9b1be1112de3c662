// route/encode.go
package route

import (
	"fmt"
	"strings"

	"github.com/joeydtaylor/strada-core/pkg/codec"
	"github.com/joeydtaylor/strada-core/pkg/controller"
)

// Encode renders the table as the persisted cache form:
//
//	{ "GET": { "/example": "controllers.Home" } }
func (t Table) Encode() ([]byte, error) {
	out := map[string]map[string]string{}
	for v, m := range t {
		paths := map[string]string{}
		for p, id := range m {
			paths[p] = id
		}
		out[string(v)] = paths
	}
	return codec.JSONStrict.Marshal(out)
}

// Decode parses a persisted table and validates every record: verbs must
// be one of the six supported methods, paths must be rooted, and
// controller IDs must be non-empty. Anything else fails the whole decode
// so the caller falls back to a rebuild.
func Decode(data []byte) (Table, error) {
	raw := map[string]map[string]string{}
	if err := codec.JSONStrict.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	t := Table{}
	for vs, m := range raw {
		v, ok := controller.ParseVerb(vs)
		if !ok || string(v) != vs {
			return nil, fmt.Errorf("route cache: unknown verb %q", vs)
		}
		for p, id := range m {
			if !strings.HasPrefix(p, "/") {
				return nil, fmt.Errorf("route cache: path %q not rooted", p)
			}
			if strings.TrimSpace(id) == "" {
				return nil, fmt.Errorf("route cache: empty controller id for %s %s", vs, p)
			}
			t.set(v, p, id)
		}
	}
	return t, nil
}

package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/strada-core/pkg/controller"
	"github.com/joeydtaylor/strada-core/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoCtor(verbs ...controller.Verb) func() controller.Controller {
	return func() controller.Controller {
		m := controller.Map{}
		for _, v := range verbs {
			v := v
			m[v] = func(ctx context.Context) (controller.Result, error) {
				return controller.Result{Body: []byte(string(v))}, nil
			}
		}
		return m
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestNewRequiresDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	f := writeFile(t, t.TempDir(), "file.go", "package x\n")
	_, err = New(f)
	require.ErrorContains(t, err, "not a directory")
}

func TestScanResolvesRegisteredControllers(t *testing.T) {
	controller.MustRegister("scandemo.Home",
		controller.Descriptor{Path: "/"},
		echoCtor(controller.GET))
	controller.MustRegister("scandemo.HomePage",
		controller.Descriptor{Path: "/home-page"},
		echoCtor(controller.GET, controller.POST))

	root := t.TempDir()
	writeFile(t, root, "home.go", "package scandemo\n")
	// Multi-word base names map onto exported type names.
	writeFile(t, root, "home_page.go", "// comment header\n\npackage scandemo\n")
	// Present on disk but never registered: skipped silently.
	writeFile(t, root, "orphan.go", "package scandemo\n")
	// Not a Go unit at all.
	writeFile(t, root, "notes.txt", "hello")
	writeFile(t, root, "broken.go", "this is not a package clause\n")
	// Dot entries are ignored.
	writeFile(t, root, ".hidden/secret.go", "package scandemo\n")

	s, err := New(root)
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)

	got := map[string]string{}
	for _, e := range entries {
		got[string(e.Verb)+" "+e.Path] = e.ControllerID
	}
	assert.Equal(t, map[string]string{
		"GET /":           "scandemo.Home",
		"GET /home-page":  "scandemo.HomePage",
		"POST /home-page": "scandemo.HomePage",
	}, got)
}

func TestScanRecursesSubdirectories(t *testing.T) {
	controller.MustRegister("scansub.Admin",
		controller.Descriptor{Path: "/admin"},
		echoCtor(controller.GET))

	root := t.TempDir()
	writeFile(t, root, "nested/deep/admin.go", "/* block\ncomment */\npackage scansub\n")

	s, err := New(root)
	require.NoError(t, err)

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, route.Entry{
		Verb:         controller.GET,
		Path:         "/admin",
		ControllerID: "scansub.Admin",
	}, entries[0])
}

func TestChangedSince(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "thing.go", "package scanmod\n")

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	s, err := New(root)
	require.NoError(t, err)

	changed, err := s.ChangedSince(time.Now().Add(-1 * time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.ChangedSince(time.Now().Add(-3 * time.Hour))
	require.NoError(t, err)
	assert.True(t, changed)
}

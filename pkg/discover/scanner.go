// discover/scanner.go
package discover

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeydtaylor/strada-core/pkg/controller"
	"github.com/joeydtaylor/strada-core/pkg/route"
)

// maxDepth bounds directory recursion so a symlink cycle under the
// controller root cannot hang a scan.
const maxDepth = 32

// Scanner enumerates Go source units under a controller root and
// resolves them against the controller registry.
type Scanner struct {
	root string
}

// New validates the controller root up front: it must exist and be a
// directory, otherwise construction fails.
func New(root string) (*Scanner, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("controller root %q: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("controller root %q is not a directory", root)
	}
	return &Scanner{root: root}, nil
}

// Root returns the controller root directory.
func (s *Scanner) Root() string { return s.root }

// Scan walks the controller root and emits one route entry per
// (controller, supported verb). Source units whose derived ID resolves
// to no registered controller are skipped silently; non-controller files
// in the tree are expected.
func (s *Scanner) Scan() ([]route.Entry, error) {
	var entries []route.Entry
	err := s.walk(s.root, 0, func(path string) {
		id, ok := sourceID(path)
		if !ok {
			return
		}
		b, ok := controller.Resolve(id)
		if !ok {
			return
		}
		inst := b.New()
		if inst == nil {
			return
		}
		for _, v := range controller.Verbs {
			if _, ok := inst.Action(v); ok {
				entries = append(entries, route.Entry{
					Verb:         v,
					Path:         b.Desc.Path,
					ControllerID: b.ID,
				})
			}
		}
	})
	return entries, err
}

// ChangedSince reports whether any source unit under the root has a
// modification time after t.
func (s *Scanner) ChangedSince(t time.Time) (bool, error) {
	changed := false
	err := s.walkInfo(s.root, 0, func(path string, mod time.Time) {
		if mod.After(t) {
			changed = true
		}
	})
	return changed, err
}

func (s *Scanner) walk(dir string, depth int, fn func(path string)) error {
	return s.walkInfo(dir, depth, func(path string, _ time.Time) { fn(path) })
}

func (s *Scanner) walkInfo(dir string, depth int, fn func(path string, mod time.Time)) error {
	if depth > maxDepth {
		return nil
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scan %q: %w", dir, err)
	}
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if e.IsDir() {
			if err := s.walkInfo(full, depth+1, fn); err != nil {
				return err
			}
			continue
		}
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		fn(full, fi.ModTime())
	}
	return nil
}

// sourceID derives a fully-qualified controller ID from a source unit
// without parsing it: the package qualifier comes from a line scan of
// the file header, the type name from the base file name, so
// controllers/home_page.go with "package controllers" becomes
// "controllers.HomePage".
func sourceID(path string) (string, bool) {
	pkg, ok := packageClause(path)
	if !ok {
		return "", false
	}
	base := strings.TrimSuffix(filepath.Base(path), ".go")
	return pkg + "." + exportName(base), true
}

func packageClause(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	inBlock := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if inBlock {
			if i := strings.Index(line, "*/"); i >= 0 {
				line = strings.TrimSpace(line[i+2:])
				inBlock = false
			} else {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "/*") {
			inBlock = true
			continue
		}
		if rest, ok := strings.CutPrefix(line, "package "); ok {
			name := strings.TrimSpace(rest)
			if i := strings.IndexAny(name, " \t/"); i >= 0 {
				name = name[:i]
			}
			return name, name != ""
		}
		// First real line is not a package clause; not a Go unit we care about.
		return "", false
	}
	return "", false
}

func exportName(base string) string {
	parts := strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

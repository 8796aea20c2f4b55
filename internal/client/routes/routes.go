// Package routes classifies client paths as public or protected.
package routes

import (
	"path"
	"strings"
)

// Fallback is where unauthenticated visitors are sent.
const Fallback = "/"

// DefaultPublic lists the paths reachable without signing in.
var DefaultPublic = []string{"/", "/about", "/clubs", "/events"}

// Table is an allow-list of public paths; anything not listed is protected.
type Table struct {
	public   map[string]struct{}
	fallback string
}

func NewTable(public ...string) *Table {
	if len(public) == 0 {
		public = DefaultPublic
	}
	t := &Table{public: make(map[string]struct{}, len(public)), fallback: Fallback}
	for _, p := range public {
		t.public[Normalize(p)] = struct{}{}
	}
	t.public[t.fallback] = struct{}{}
	return t
}

// Normalize strips query and fragment, cleans dot segments and drops the
// trailing slash. The empty path becomes "/".
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func (t *Table) IsPublic(p string) bool {
	_, ok := t.public[Normalize(p)]
	return ok
}

func (t *Table) IsProtected(p string) bool { return !t.IsPublic(p) }

func (t *Table) Fallback() string { return t.fallback }

// Public returns the allow-list, unordered.
func (t *Table) Public() []string {
	out := make([]string, 0, len(t.public))
	for p := range t.public {
		out = append(out, p)
	}
	return out
}

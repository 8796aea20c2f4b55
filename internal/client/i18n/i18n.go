// Package i18n picks the interface language and renders the few texts the
// session core emits.
package i18n

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sportclub/internal/client/repositories/kv"
	"github.com/dmitrijs2005/sportclub/internal/client/storage"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	// Default is used when no preference has been stored.
	Default = language.Hebrew
	// Fallback is used when a stored or requested tag is not supported.
	Fallback = language.English
)

// Supported lists the interface languages. Fallback goes first so the
// matcher falls back to it.
var Supported = []language.Tag{language.English, language.Hebrew, language.Arabic, language.Spanish}

var matcher = language.NewMatcher(Supported)

// legacy codes still found in stored preferences
var aliases = map[string]string{"sp": "es"}

// Match maps a raw tag to a supported language. ok is false when raw did not
// match anything and Fallback was chosen.
func Match(raw string) (tag language.Tag, ok bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if a, found := aliases[raw]; found {
		raw = a
	}
	t, err := language.Parse(raw)
	if err != nil {
		return Fallback, false
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return Fallback, false
	}
	return Supported[idx], true
}

// Code is the short form stored under the language key.
func Code(t language.Tag) string {
	b, _ := t.Base()
	return b.String()
}

// Localizer holds the active language, persisted in the key/value storage.
type Localizer struct {
	repo kv.Repository
	cat  catalog.Catalog

	mu  sync.RWMutex
	tag language.Tag
	p   *message.Printer
}

// NewLocalizer loads the stored preference. Without one it uses def, or
// Default when def is empty. def is not persisted.
func NewLocalizer(ctx context.Context, repo kv.Repository, def string) (*Localizer, error) {
	l := &Localizer{repo: repo, cat: newCatalog()}

	tag := Default
	if def != "" {
		tag, _ = Match(def)
	}
	v, ok, err := repo.Get(ctx, storage.KeyLanguage)
	if err != nil {
		return nil, fmt.Errorf("load language: %w", err)
	}
	if ok && v != "" {
		tag, _ = Match(v)
	}
	l.use(tag)
	return l, nil
}

func (l *Localizer) use(tag language.Tag) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tag = tag
	l.p = message.NewPrinter(tag, message.Catalog(l.cat))
}

func (l *Localizer) Language() language.Tag {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tag
}

// Set switches the language and stores the choice. An unsupported tag
// switches to Fallback and is reported through ok.
func (l *Localizer) Set(ctx context.Context, raw string) (tag language.Tag, ok bool, err error) {
	tag, ok = Match(raw)
	if err := l.repo.Set(ctx, storage.KeyLanguage, Code(tag)); err != nil {
		return l.Language(), ok, fmt.Errorf("store language: %w", err)
	}
	l.use(tag)
	return tag, ok, nil
}

// T renders the message key in the active language.
func (l *Localizer) T(key string, args ...any) string {
	l.mu.RLock()
	p := l.p
	l.mu.RUnlock()
	return p.Sprintf(key, args...)
}

// RightToLeft reports whether the active language is written right to left.
func (l *Localizer) RightToLeft() bool {
	switch Code(l.Language()) {
	case "he", "ar":
		return true
	}
	return false
}

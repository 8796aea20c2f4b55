// Package notify produces transient user-facing messages. It only builds
// requests; rendering (a snackbar, a terminal line) belongs to the caller.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 8 * time.Second

type Notification struct {
	ID       uuid.UUID
	Severity Severity
	Text     string
	Duration time.Duration
}

// New stamps a notification with a fresh ID and the default duration.
func New(sev Severity, text string) Notification {
	return Notification{ID: uuid.New(), Severity: sev, Text: text, Duration: DefaultDuration}
}

// Expired reports whether n, shown at shownAt, should be gone at now.
func (n Notification) Expired(shownAt, now time.Time) bool {
	return n.Duration > 0 && !now.Before(shownAt.Add(n.Duration))
}

type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Recorder keeps every notification it receives.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Texts lists the recorded texts in order.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.all))
	for i, n := range r.all {
		out[i] = n.Text
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = nil
}

// WriterNotifier prints notifications as single lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (wn *WriterNotifier) Notify(n Notification) {
	wn.mu.Lock()
	defer wn.mu.Unlock()
	mark := "✓"
	if n.Severity == SeverityError {
		mark = "!"
	}
	fmt.Fprintf(wn.w, "\n[%s] %s\n", mark, n.Text)
}

// Package navigation keeps the current client path and tells listeners
// when it changes.
package navigation

import (
	"sync"

	"github.com/dmitrijs2005/sportclub/internal/client/routes"
)

// Kind says how a change was made.
type Kind int

const (
	Push Kind = iota
	Redirect
)

type Change struct {
	From string
	To   string
	Kind Kind
}

type Listener func(Change)

type Router struct {
	mu        sync.Mutex
	current   string
	history   []string
	listeners map[int]Listener
	order     []int
	nextID    int
}

func NewRouter(start string) *Router {
	return &Router{current: routes.Normalize(start), listeners: map[int]Listener{}}
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History lists visited paths, oldest first, excluding the current one.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Navigate moves to p and records the previous path in history.
func (r *Router) Navigate(p string) { r.move(p, Push) }

// Replace moves to p without adding a history entry.
func (r *Router) Replace(p string) { r.move(p, Redirect) }

// Back returns to the previous path. It reports false when there is none.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	ch := Change{From: r.current, To: prev, Kind: Push}
	r.current = prev
	ls := r.snapshotLocked()
	r.mu.Unlock()

	for _, fn := range ls {
		fn(ch)
	}
	return true
}

// OnChange registers fn. Listeners run after the path has been updated, in
// registration order, and may navigate again.
func (r *Router) OnChange(fn Listener) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.order = append(r.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.listeners, id)
			for i, v := range r.order {
				if v == id {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (r *Router) move(p string, kind Kind) {
	p = routes.Normalize(p)

	r.mu.Lock()
	ch := Change{From: r.current, To: p, Kind: kind}
	if kind == Push && r.current != p {
		r.history = append(r.history, r.current)
	}
	r.current = p
	ls := r.snapshotLocked()
	r.mu.Unlock()

	for _, fn := range ls {
		fn(ch)
	}
}

func (r *Router) snapshotLocked() []Listener {
	out := make([]Listener, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.listeners[id])
	}
	return out
}

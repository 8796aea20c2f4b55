package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/sportclub/internal/client/credentials"
)

// Next continues the interceptor chain.
type Next func(req *http.Request) (*http.Response, error)

// Interceptor observes or rewrites an outbound call. It must call next
// exactly once unless it short-circuits with an error.
type Interceptor func(req *http.Request, next Next) (*http.Response, error)

type registration struct {
	fn Interceptor
}

// Transport is the single shared http.RoundTripper of the client. Interceptors
// run in registration order, the first registered being the outermost.
type Transport struct {
	base http.RoundTripper

	mu    sync.RWMutex
	chain []*registration
}

func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base}
}

// Use registers fn and returns the function that removes it. Removing twice
// is a no-op.
func (t *Transport) Use(fn Interceptor) (remove func()) {
	reg := &registration{fn: fn}

	t.mu.Lock()
	t.chain = append(t.chain, reg)
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, r := range t.chain {
				if r == reg {
					t.chain = append(t.chain[:i:i], t.chain[i+1:]...)
					return
				}
			}
		})
	}
}

// Len reports how many interceptors are installed.
func (t *Transport) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.chain)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.RLock()
	chain := make([]*registration, len(t.chain))
	copy(chain, t.chain)
	t.mu.RUnlock()

	next := Next(t.base.RoundTrip)
	for i := len(chain) - 1; i >= 0; i-- {
		fn, inner := chain[i].fn, next
		next = func(r *http.Request) (*http.Response, error) {
			return fn(r, inner)
		}
	}
	return next(req)
}

type anonymousKey struct{}

// WithAnonymous marks calls made with ctx as carrying no credential.
func WithAnonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

// IsAnonymous reports whether ctx was marked by WithAnonymous.
func IsAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// BearerInterceptor attaches "Authorization: Bearer <token>" when src holds a
// credential and the call is not anonymous.
func BearerInterceptor(src credentials.Source) Interceptor {
	return func(req *http.Request, next Next) (*http.Response, error) {
		ctx := req.Context()
		if IsAnonymous(ctx) {
			return next(req)
		}
		token, ok, err := src.Get(ctx)
		if err != nil || !ok {
			return next(req)
		}
		r := req.Clone(ctx)
		r.Header.Set("Authorization", "Bearer "+string(token))
		return next(r)
	}
}

// UnauthorizedInterceptor calls onUnauthorized when a call that carried a
// bearer credential comes back 401. It must be registered after
// BearerInterceptor so that it sees the header.
func UnauthorizedInterceptor(onUnauthorized func(ctx context.Context, req *http.Request)) Interceptor {
	return func(req *http.Request, next Next) (*http.Response, error) {
		resp, err := next(req)
		if err == nil && resp.StatusCode == http.StatusUnauthorized && req.Header.Get("Authorization") != "" {
			onUnauthorized(req.Context(), req)
		}
		return resp, err
	}
}

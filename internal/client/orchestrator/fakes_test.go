package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sportclub/internal/client/api"
	"github.com/dmitrijs2005/sportclub/internal/client/credentials"
	"github.com/dmitrijs2005/sportclub/internal/client/models"
	"github.com/dmitrijs2005/sportclub/internal/client/navigation"
	"github.com/dmitrijs2005/sportclub/internal/client/notify"
	"github.com/dmitrijs2005/sportclub/internal/client/scheduler"
	"github.com/dmitrijs2005/sportclub/internal/client/session"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu         sync.Mutex
	fetchCalls int
	loginCalls int
	regCalls   int

	fetch    func(ctx context.Context) (*models.User, error)
	login    func(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	register func(ctx context.Context, req models.RegisterUserRequest) (*models.LoginResult, error)
}

func (g *fakeGateway) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	g.mu.Lock()
	g.fetchCalls++
	fn := g.fetch
	g.mu.Unlock()
	if fn == nil {
		return nil, &api.AuthError{Kind: api.ErrNoCredential, Record: models.ErrorRecord{Status: models.StatusFail, Message: "no authentication token"}}
	}
	return fn(ctx)
}

func (g *fakeGateway) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	g.mu.Lock()
	g.loginCalls++
	fn := g.login
	g.mu.Unlock()
	return fn(ctx, req)
}

func (g *fakeGateway) Register(ctx context.Context, req models.RegisterUserRequest) (*models.LoginResult, error) {
	g.mu.Lock()
	g.regCalls++
	fn := g.register
	g.mu.Unlock()
	return fn(ctx, req)
}

func (g *fakeGateway) calls() (fetch, login int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetchCalls, g.loginCalls
}

// countingStore counts writes reaching the credential store.
type countingStore struct {
	credentials.Store
	mu     sync.Mutex
	sets   int
	clears int
}

func (s *countingStore) Set(ctx context.Context, c credentials.Credential) error {
	s.mu.Lock()
	s.sets++
	s.mu.Unlock()
	return s.Store.Set(ctx, c)
}

func (s *countingStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
	return s.Store.Clear(ctx)
}

func (s *countingStore) writes() (sets, clears int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets, s.clears
}

func rejectedErr(msg string) error {
	return &api.AuthError{
		Kind:       api.ErrRemoteRejected,
		Record:     models.ErrorRecord{Status: models.StatusFail, Message: msg},
		StatusCode: 400,
	}
}

var (
	userU1 = &models.User{ID: "u1", FirstName: "Dana", LastName: "Levi", Email: "dana@example.com"}
	userU2 = &models.User{ID: "u2", FullName: "Omar Haddad", Email: "omar@example.com"}
)

type harness struct {
	o      *Orchestrator
	sess   *session.Store
	store  credentials.Store
	creds  *countingStore
	gw     *fakeGateway
	router *navigation.Router
	notes  *notify.Recorder
	clock  *scheduler.FakeClock
	tr     *api.Transport
}

type harnessOption func(h *harness, d *Deps)

func withTransport(tr *api.Transport) harnessOption {
	return func(_ *harness, d *Deps) { d.Transport = tr }
}

// withClient replaces the fake gateway with a real client reading the
// harness credential store.
func withClient(t *testing.T, baseURL string) harnessOption {
	return func(h *harness, d *Deps) {
		c, err := api.NewClient(baseURL, h.creds)
		require.NoError(t, err)
		d.Gateway = c
		d.Transport = c.Transport()
	}
}

// newHarness wires an orchestrator around in-memory collaborators. A
// non-empty token is stored before anything runs.
func newHarness(t *testing.T, token, route string, opts ...harnessOption) *harness {
	t.Helper()
	ctx := context.Background()

	h := &harness{
		sess:   session.NewStore(),
		store:  credentials.NewMemoryStore(),
		gw:     &fakeGateway{},
		router: navigation.NewRouter(route),
		notes:  &notify.Recorder{},
		clock:  scheduler.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
	}
	if token != "" {
		require.NoError(t, h.store.Set(ctx, credentials.Credential(token)))
	}
	h.creds = &countingStore{Store: h.store}

	d := Deps{
		Session:     h.sess,
		Credentials: h.creds,
		Gateway:     h.gw,
		Router:      h.router,
		Notifier:    h.notes,
		Clock:       h.clock,
	}
	for _, opt := range opts {
		opt(h, &d)
	}
	h.tr = d.Transport

	o, err := New(d)
	require.NoError(t, err)
	h.o = o
	t.Cleanup(o.Stop)
	return h
}

func (h *harness) token(t *testing.T) (string, bool) {
	t.Helper()
	c, ok, err := h.store.Get(context.Background())
	require.NoError(t, err)
	return string(c), ok
}

package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sportclub/internal/client/api"
	"github.com/dmitrijs2005/sportclub/internal/client/i18n"
	"github.com/dmitrijs2005/sportclub/internal/client/models"
	"github.com/dmitrijs2005/sportclub/internal/client/navigation"
	"github.com/dmitrijs2005/sportclub/internal/client/notify"
	"github.com/dmitrijs2005/sportclub/internal/client/session"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Deps{})
	require.Error(t, err)

	_, err = New(Deps{Session: session.NewStore(), Credentials: nil})
	assert.ErrorContains(t, err, "credential store")
}

func TestStart_NoCredentialOnPublicRoute(t *testing.T) {
	h := newHarness(t, "", "/about")

	require.NoError(t, h.o.Start(context.Background()))

	st := h.o.State()
	assert.Equal(t, session.PhaseUnauthenticated, st.Phase)
	assert.Equal(t, "/about", h.router.Current())
	assert.Empty(t, h.notes.All())
	fetches, _ := h.gw.calls()
	assert.Zero(t, fetches)
}

func TestStart_NoCredentialOnProtectedRoute(t *testing.T) {
	h := newHarness(t, "", "/profile")

	require.NoError(t, h.o.Start(context.Background()))

	assert.Equal(t, session.PhaseUnauthenticated, h.o.State().Phase)
	assert.Equal(t, "/", h.router.Current())

	all := h.notes.All()
	require.Len(t, all, 1)
	assert.Equal(t, i18n.MsgLoginRequired, all[0].Text)
	assert.Equal(t, notify.SeverityError, all[0].Severity)
	assert.Equal(t, notify.DefaultDuration, all[0].Duration)
}

func TestStart_RestoresSession(t *testing.T) {
	h := newHarness(t, "abc123", "/profile")
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU1, nil }

	var flags []bool
	h.sess.Subscribe(func(st session.State) { flags = append(flags, st.IsAuthenticating) })

	require.NoError(t, h.o.Start(context.Background()))

	st := h.o.State()
	assert.Equal(t, session.PhaseAuthenticated, st.Phase)
	assert.False(t, st.IsAuthenticating)
	assert.Equal(t, "u1", st.User.ID)
	assert.Equal(t, []bool{true, false}, flags)

	tok, ok := h.token(t)
	assert.True(t, ok)
	assert.Equal(t, "abc123", tok)
	sets, clears := h.creds.writes()
	assert.Zero(t, sets)
	assert.Zero(t, clears)
	assert.Equal(t, "/profile", h.router.Current())
	assert.Empty(t, h.notes.All())
}

func TestStart_FetchFailureClearsCredential(t *testing.T) {
	h := newHarness(t, "abc123", "/profile")
	h.gw.fetch = func(context.Context) (*models.User, error) { return nil, rejectedErr("user not found") }

	require.NoError(t, h.o.Start(context.Background()))

	st := h.o.State()
	assert.Equal(t, session.PhaseUnauthenticated, st.Phase)
	assert.False(t, st.IsAuthenticating)
	require.NotNil(t, st.Error)
	assert.Equal(t, models.ErrorRecord{Status: models.StatusFail, Message: "user not found"}, *st.Error)

	_, ok := h.token(t)
	assert.False(t, ok)
	assert.Equal(t, "/", h.router.Current())
	assert.Equal(t, []string{i18n.MsgLoginRequired}, h.notes.Texts())
}

func TestStart_Twice(t *testing.T) {
	h := newHarness(t, "", "/")
	require.NoError(t, h.o.Start(context.Background()))
	assert.ErrorIs(t, h.o.Start(context.Background()), ErrAlreadyStarted)
}

func TestStop_ReleasesResources(t *testing.T) {
	h := newHarness(t, "", "/", withTransport(api.NewTransport(nil)))
	require.NoError(t, h.o.Start(context.Background()))

	task := h.o.task
	require.NotNil(t, task)
	assert.Equal(t, 1, h.tr.Len())

	h.o.Stop()
	h.o.Stop()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("poll task still running")
	}
	assert.Equal(t, 0, h.tr.Len())

	h.router.Navigate("/profile")
	assert.Equal(t, "/profile", h.router.Current(), "guard is no longer subscribed")
}

func TestPoll_DetectsExternalLogout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "abc123", "/profile")
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU1, nil }
	require.NoError(t, h.o.Start(ctx))
	require.True(t, h.o.State().Authenticated())

	// another client signs out
	require.NoError(t, h.store.Clear(ctx))

	h.clock.Advance(DefaultPollInterval)
	require.Eventually(t, func() bool {
		return h.o.State().Phase == session.PhaseUnauthenticated
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool { return len(h.notes.All()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{i18n.MsgSessionExpired}, h.notes.Texts())
	assert.Equal(t, "/", h.router.Current())

	h.clock.Advance(DefaultPollInterval)
	h.clock.Advance(DefaultPollInterval)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, h.notes.All(), 1)
}

func TestPoll_Idempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "abc123", "/")
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU1, nil }
	require.NoError(t, h.o.Refresh(ctx))
	require.NoError(t, h.store.Clear(ctx))

	h.o.Poll(ctx)
	h.o.Poll(ctx)

	assert.Equal(t, []string{i18n.MsgSessionExpired}, h.notes.Texts())
	assert.Equal(t, session.PhaseUnauthenticated, h.o.State().Phase)
}

func TestPoll_NoopWhenConsistent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "abc123", "/")
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU1, nil }
	require.NoError(t, h.o.Refresh(ctx))
	v := h.o.State().Version

	h.o.Poll(ctx)

	assert.Equal(t, v, h.o.State().Version)
	assert.Empty(t, h.notes.All())
}

func TestGuard_Idempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/profile")
	h.sess.MarkUnauthenticated()

	h.o.Guard(ctx)
	assert.Equal(t, "/", h.router.Current())

	// back on the protected page without a navigation event
	h.router.Replace("/profile")
	h.o.Guard(ctx)

	assert.Len(t, h.notes.All(), 1)
}

func TestGuard_EachNavigationNotifies(t *testing.T) {
	h := newHarness(t, "", "/")
	require.NoError(t, h.o.Start(context.Background()))

	h.router.Navigate("/profile")
	assert.Equal(t, "/", h.router.Current())
	h.router.Navigate("/settings")
	assert.Equal(t, "/", h.router.Current())
	h.router.Navigate("/clubs")
	assert.Equal(t, "/clubs", h.router.Current())

	assert.Equal(t, []string{i18n.MsgLoginRequired, i18n.MsgLoginRequired}, h.notes.Texts())
}

func TestGuard_AllowsProtectedWithCredential(t *testing.T) {
	h := newHarness(t, "abc123", "/")
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU1, nil }
	require.NoError(t, h.o.Start(context.Background()))

	h.router.Navigate("/profile")

	assert.Equal(t, "/profile", h.router.Current())
	assert.Empty(t, h.notes.All())
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/")
	h.gw.login = func(_ context.Context, req models.LoginRequest) (*models.LoginResult, error) {
		assert.Equal(t, "dana@example.com", req.Email)
		return &models.LoginResult{Token: "tok-1", User: userU1}, nil
	}
	require.NoError(t, h.o.Start(ctx))

	user, err := h.o.Login(ctx, models.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	st := h.o.State()
	assert.True(t, st.Authenticated())
	assert.False(t, st.Loading)
	tok, _ := h.token(t)
	assert.Equal(t, "tok-1", tok)

	all := h.notes.All()
	require.Len(t, all, 1)
	assert.Equal(t, notify.SeveritySuccess, all[0].Severity)
	assert.Equal(t, "Welcome, Dana Levi", all[0].Text)
}

func TestLogin_FallsBackToFetch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/")
	h.gw.login = func(context.Context, models.LoginRequest) (*models.LoginResult, error) {
		return &models.LoginResult{Token: "tok-2"}, nil
	}
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU2, nil }

	user, err := h.o.Login(ctx, models.LoginRequest{Email: "omar@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "u2", h.o.State().User.ID)
}

func TestLogin_FallbackFetchFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/")
	h.gw.login = func(context.Context, models.LoginRequest) (*models.LoginResult, error) {
		return &models.LoginResult{Token: "tok-2"}, nil
	}
	h.gw.fetch = func(context.Context) (*models.User, error) {
		return nil, &api.AuthError{Kind: api.ErrRemoteUnreachable, Record: models.ErrorRecord{Status: models.StatusError, Message: "connection refused"}}
	}

	_, err := h.o.Login(ctx, models.LoginRequest{Email: "omar@example.com", Password: "secret1"})
	require.ErrorIs(t, err, api.ErrRemoteUnreachable)

	_, ok := h.token(t)
	assert.False(t, ok)
	assert.False(t, h.o.State().Authenticated())
}

func TestLogin_RejectedWhileSignedOut(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/")
	h.gw.login = func(context.Context, models.LoginRequest) (*models.LoginResult, error) {
		return nil, rejectedErr("Invalid email or password")
	}
	require.NoError(t, h.o.Start(ctx))
	before := h.o.State()

	_, err := h.o.Login(ctx, models.LoginRequest{Email: "bad@x.com", Password: "wrong"})

	var ae *api.AuthError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, models.ErrorRecord{Status: models.StatusFail, Message: "Invalid email or password"}, ae.Record)

	sets, clears := h.creds.writes()
	assert.Zero(t, sets)
	assert.Zero(t, clears)

	after := h.o.State()
	assert.Equal(t, before.Authenticated(), after.Authenticated())
	assert.Nil(t, after.User)
	assert.False(t, after.Loading)
	require.NotNil(t, after.Error)
	assert.Equal(t, "Invalid email or password", after.Error.Message)
	assert.Empty(t, h.notes.All())
}

func TestLogin_RejectedWhileSignedIn(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "abc123", "/profile")
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU1, nil }
	h.gw.login = func(context.Context, models.LoginRequest) (*models.LoginResult, error) {
		return nil, rejectedErr("Invalid email or password")
	}
	require.NoError(t, h.o.Start(ctx))

	_, err := h.o.Login(ctx, models.LoginRequest{Email: "bad@x.com", Password: "wrong"})
	require.ErrorIs(t, err, api.ErrRemoteRejected)

	st := h.o.State()
	assert.Equal(t, session.PhaseAuthenticated, st.Phase)
	assert.Equal(t, "u1", st.User.ID)
	tok, _ := h.token(t)
	assert.Equal(t, "abc123", tok)
	assert.Equal(t, "/profile", h.router.Current())
}

func TestLogin_InvalidForm(t *testing.T) {
	h := newHarness(t, "", "/")

	_, err := h.o.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})

	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	_, logins := h.gw.calls()
	assert.Zero(t, logins)
	assert.Equal(t, session.PhaseIdle, h.o.State().Phase)
}

func TestLogin_ThenRefreshRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/")
	h.gw.login = func(context.Context, models.LoginRequest) (*models.LoginResult, error) {
		return &models.LoginResult{Token: "tok-1", User: userU1}, nil
	}
	h.gw.fetch = func(context.Context) (*models.User, error) {
		u := *userU1
		return &u, nil
	}

	user, err := h.o.Login(ctx, models.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, h.o.Refresh(ctx))

	if diff := cmp.Diff(user, h.o.State().User); diff != "" {
		t.Errorf("user changed after refresh (-login +refresh):\n%s", diff)
	}
	sets, clears := h.creds.writes()
	assert.Equal(t, 1, sets)
	assert.Zero(t, clears)
}

func TestLogout_WinsOverInflightFetch(t *testing.T) {
	for _, tc := range []struct {
		name   string
		result func() (*models.User, error)
	}{
		{"success", func() (*models.User, error) { return userU1, nil }},
		{"failure", func() (*models.User, error) { return nil, rejectedErr("boom") }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, "abc123", "/")

			entered := make(chan struct{})
			release := make(chan struct{})
			h.gw.fetch = func(context.Context) (*models.User, error) {
				close(entered)
				<-release
				return tc.result()
			}

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = h.o.Start(ctx)
			}()

			<-entered
			assert.True(t, h.o.State().IsAuthenticating)
			require.NoError(t, h.o.Logout(ctx))
			close(release)
			wg.Wait()

			st := h.o.State()
			assert.Equal(t, session.PhaseUnauthenticated, st.Phase)
			assert.Nil(t, st.User)
			assert.False(t, st.IsAuthenticating)
			assert.Nil(t, st.Error)
			assert.Equal(t, []string{i18n.MsgLoggedOut}, h.notes.Texts())

			_, clears := h.creds.writes()
			assert.Equal(t, 1, clears, "only the logout clears the credential")
		})
	}
}

func TestLogout_WinsOverInflightLogin(t *testing.T) {
	for _, tc := range []struct {
		name     string
		blockOn  string
		fetchErr error
		sets     int
	}{
		{name: "during login request", blockOn: "login"},
		{name: "during user fetch", blockOn: "fetch", sets: 1},
		{name: "during failing user fetch", blockOn: "fetch", fetchErr: rejectedErr("boom"), sets: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, "", "/")

			entered := make(chan struct{})
			release := make(chan struct{})
			wait := func() {
				close(entered)
				<-release
			}
			h.gw.login = func(context.Context, models.LoginRequest) (*models.LoginResult, error) {
				if tc.blockOn == "login" {
					wait()
					return &models.LoginResult{Token: "tok-2", User: userU2}, nil
				}
				return &models.LoginResult{Token: "tok-2"}, nil
			}
			h.gw.fetch = func(context.Context) (*models.User, error) {
				wait()
				if tc.fetchErr != nil {
					return nil, tc.fetchErr
				}
				return userU2, nil
			}

			done := make(chan error, 1)
			go func() {
				_, err := h.o.Login(ctx, models.LoginRequest{Email: "omar@example.com", Password: "secret1"})
				done <- err
			}()

			<-entered
			require.NoError(t, h.o.Logout(ctx))
			close(release)
			require.ErrorIs(t, <-done, ErrLoginSuperseded)

			st := h.o.State()
			assert.Equal(t, session.PhaseUnauthenticated, st.Phase)
			assert.Nil(t, st.User)
			assert.Nil(t, st.Error)
			assert.False(t, st.Loading)

			_, ok := h.token(t)
			assert.False(t, ok, "no credential may survive the logout")
			sets, _ := h.creds.writes()
			assert.Equal(t, tc.sets, sets)
			assert.Equal(t, []string{i18n.MsgLoggedOut}, h.notes.Texts())

			h.o.Poll(ctx)
			assert.Equal(t, []string{i18n.MsgLoggedOut}, h.notes.Texts(), "no desync follows")
		})
	}
}

func TestRefresh_InflightIsShared(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "abc123", "/")

	entered := make(chan struct{})
	release := make(chan struct{})
	h.gw.fetch = func(context.Context) (*models.User, error) {
		close(entered)
		<-release
		return userU1, nil
	}

	done := make(chan error, 1)
	go func() { done <- h.o.Refresh(ctx) }()
	<-entered

	require.NoError(t, h.o.Refresh(ctx))
	close(release)
	require.NoError(t, <-done)

	fetches, _ := h.gw.calls()
	assert.Equal(t, 1, fetches)
	assert.True(t, h.o.State().Authenticated())
}

func TestRegister_WithToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/")
	h.gw.register = func(_ context.Context, req models.RegisterUserRequest) (*models.LoginResult, error) {
		return &models.LoginResult{Token: "tok-new", User: &models.User{ID: "u9", FirstName: req.FirstName, LastName: req.LastName}}, nil
	}

	user, err := h.o.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.Equal(t, []string{i18n.MsgRegistered, "Welcome, Noa Cohen"}, h.notes.Texts())

	tok, _ := h.token(t)
	assert.Equal(t, "tok-new", tok)
	_, logins := h.gw.calls()
	assert.Zero(t, logins)
}

func TestRegister_WithoutTokenLogsIn(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/")
	h.gw.register = func(context.Context, models.RegisterUserRequest) (*models.LoginResult, error) {
		return &models.LoginResult{}, nil
	}
	h.gw.login = func(_ context.Context, req models.LoginRequest) (*models.LoginResult, error) {
		assert.Equal(t, "noa@example.com", req.Email)
		return &models.LoginResult{Token: "tok-login", User: &models.User{ID: "u9", FullName: "Noa Cohen"}}, nil
	}

	user, err := h.o.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	_, logins := h.gw.calls()
	assert.Equal(t, 1, logins)
}

func TestRegister_Rejected(t *testing.T) {
	h := newHarness(t, "", "/")
	h.gw.register = func(context.Context, models.RegisterUserRequest) (*models.LoginResult, error) {
		return nil, rejectedErr("Email already in use")
	}

	_, err := h.o.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, api.ErrRemoteRejected)
	assert.Equal(t, session.PhaseFailed, h.o.State().Phase)
	assert.Empty(t, h.notes.All())
}

func TestLogout_RedirectsFromProtected(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "abc123", "/profile")
	h.gw.fetch = func(context.Context) (*models.User, error) { return userU1, nil }
	require.NoError(t, h.o.Start(ctx))

	require.NoError(t, h.o.Logout(ctx))

	assert.Equal(t, "/", h.router.Current())
	assert.Equal(t, []string{i18n.MsgLoggedOut}, h.notes.Texts(), "redirect after logout is not a login prompt")
	_, ok := h.token(t)
	assert.False(t, ok)
}

func TestChange_RedirectDoesNotCountAsNavigation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "", "/profile")
	h.sess.MarkUnauthenticated()

	h.o.OnRouteChange(ctx, navigation.Change{To: "/profile", Kind: navigation.Redirect})
	h.router.Replace("/profile")
	h.o.OnRouteChange(ctx, navigation.Change{To: "/profile", Kind: navigation.Redirect})

	assert.Len(t, h.notes.All(), 1)
}

func validRegistration() models.RegisterUserRequest {
	return models.RegisterUserRequest{
		FirstName:     "Noa",
		LastName:      "Cohen",
		Email:         "noa@example.com",
		Password:      "secret12",
		Phone:         models.Phone{Prefix: "+1", Number: "2015550123"},
		SportCategory: models.SportFootball,
		YearOfBirth:   1998,
	}
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/sportclub/internal/client/api"
	"github.com/dmitrijs2005/sportclub/internal/client/credentials"
	"github.com/dmitrijs2005/sportclub/internal/client/i18n"
	"github.com/dmitrijs2005/sportclub/internal/client/models"
	"github.com/dmitrijs2005/sportclub/internal/client/navigation"
	"github.com/dmitrijs2005/sportclub/internal/client/notify"
	"github.com/dmitrijs2005/sportclub/internal/client/routes"
	"github.com/dmitrijs2005/sportclub/internal/client/scheduler"
	"github.com/dmitrijs2005/sportclub/internal/client/session"
	"github.com/dmitrijs2005/sportclub/internal/logging"
)

// DefaultPollInterval is how often the credential store is checked for
// changes made by another client.
const DefaultPollInterval = 5 * time.Second

var (
	ErrAlreadyStarted = errors.New("orchestrator already started")
	// ErrLoginSuperseded is returned by a login overtaken by a logout or a
	// newer login.
	ErrLoginSuperseded = errors.New("login superseded")
)

// Translator renders a message key. *i18n.Localizer satisfies it.
type Translator interface {
	T(key string, args ...any) string
}

type englishTexts struct{}

func (englishTexts) T(key string, args ...any) string { return fmt.Sprintf(key, args...) }

// Deps are the collaborators the orchestrator coordinates. Session,
// Credentials, Gateway and Router are required.
type Deps struct {
	Session     *session.Store
	Credentials credentials.Store
	Gateway     api.Gateway
	Router      *navigation.Router

	// Transport receives the 401 interceptor; nil disables interception.
	Transport *api.Transport
	Routes    *routes.Table
	Notifier  notify.Notifier
	Texts     Translator
	Clock     scheduler.Clock
	Logger    logging.Logger

	// PollInterval defaults to DefaultPollInterval; negative disables polling.
	PollInterval time.Duration
}

type noticeKind int

const (
	noticeLoginRequired noticeKind = iota
	noticeSessionExpired
)

// noticeKey identifies the situation a notification was emitted for.
type noticeKey struct {
	version uint64
	present bool
	nav     uint64
}

type Orchestrator struct {
	session  *session.Store
	creds    credentials.Store
	gw       api.Gateway
	router   *navigation.Router
	tr       *api.Transport
	routes   *routes.Table
	notifier notify.Notifier
	texts    Translator
	clock    scheduler.Clock
	interval time.Duration
	log      logging.Logger

	mu       sync.Mutex
	started  bool
	stopped  bool
	cleanups []func()
	task     *scheduler.Task
	nav      uint64
	notified map[noticeKind]noticeKey
}

func New(d Deps) (*Orchestrator, error) {
	switch {
	case d.Session == nil:
		return nil, errors.New("orchestrator: session store is required")
	case d.Credentials == nil:
		return nil, errors.New("orchestrator: credential store is required")
	case d.Gateway == nil:
		return nil, errors.New("orchestrator: gateway is required")
	case d.Router == nil:
		return nil, errors.New("orchestrator: router is required")
	}

	o := &Orchestrator{
		session:  d.Session,
		creds:    d.Credentials,
		gw:       d.Gateway,
		router:   d.Router,
		tr:       d.Transport,
		routes:   d.Routes,
		notifier: d.Notifier,
		texts:    d.Texts,
		clock:    d.Clock,
		interval: d.PollInterval,
		log:      d.Logger,
		notified: make(map[noticeKind]noticeKey),
	}
	if o.routes == nil {
		o.routes = routes.NewTable()
	}
	if o.notifier == nil {
		o.notifier = notify.Func(func(notify.Notification) {})
	}
	if o.texts == nil {
		o.texts = englishTexts{}
	}
	if o.clock == nil {
		o.clock = scheduler.RealClock{}
	}
	if o.interval == 0 {
		o.interval = DefaultPollInterval
	}
	if o.log == nil {
		o.log = logging.Discard()
	}
	return o, nil
}

// Start installs the 401 interceptor, subscribes to route changes, starts
// the desync poll and reconciles the session with the stored credential.
// When a credential is present Start waits for the current user fetch.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true

	if o.tr != nil {
		o.cleanups = append(o.cleanups, o.tr.Use(api.UnauthorizedInterceptor(o.onUnauthorized)))
	}
	o.cleanups = append(o.cleanups, o.router.OnChange(func(ch navigation.Change) {
		o.OnRouteChange(ctx, ch)
	}))
	if o.interval > 0 {
		o.task = scheduler.Every(ctx, o.clock, o.interval, o.Poll)
	}
	o.mu.Unlock()

	o.reconcile(ctx)
	return nil
}

// Stop undoes Start. It is safe to call more than once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.started || o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	cleanups, task := o.cleanups, o.task
	o.cleanups, o.task = nil, nil
	o.mu.Unlock()

	if task != nil {
		task.Stop()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// State is the current session snapshot.
func (o *Orchestrator) State() session.State { return o.session.Snapshot() }

func (o *Orchestrator) reconcile(ctx context.Context) {
	if _, ok := o.credential(ctx); !ok {
		o.session.MarkUnauthenticated()
		o.Guard(ctx)
		return
	}
	if err := o.Refresh(ctx); err != nil {
		o.log.Warn(ctx, "session not restored", "error", err)
	}
}

// Refresh fetches the current user. A failure clears the credential and
// sends a visitor on a protected route back to the public fallback. While a
// fetch is already in flight Refresh returns immediately.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	attempt, started := o.session.BeginAuthentication()
	if !started {
		return nil
	}

	user, err := o.gw.FetchCurrentUser(ctx)
	if err == nil {
		if o.session.ResolveAuthentication(attempt, user) {
			o.log.Info(ctx, "session restored", "user_id", user.ID)
		}
		return nil
	}

	if o.session.FailAuthentication(attempt, api.Normalize(err)) {
		o.log.Info(ctx, "session fetch failed", "error", err)
		if cerr := o.creds.Clear(ctx); cerr != nil {
			o.log.Error(ctx, "clear credential", "error", cerr)
		}
		o.Guard(ctx)
	}
	return err
}

// OnRouteChange is the router listener. User navigation counts as a new
// situation for notifications; redirects do not.
func (o *Orchestrator) OnRouteChange(ctx context.Context, ch navigation.Change) {
	if ch.Kind == navigation.Push {
		o.mu.Lock()
		o.nav++
		o.mu.Unlock()
	}
	o.Guard(ctx)
}

// Guard redirects away from a protected current route when no credential
// is stored and asks the visitor to log in.
func (o *Orchestrator) Guard(ctx context.Context) {
	path := o.router.Current()
	if o.routes.IsPublic(path) {
		return
	}
	if _, ok := o.credential(ctx); ok {
		return
	}
	if o.Poll(ctx); o.routes.IsPublic(o.router.Current()) {
		// desync handling already redirected
		return
	}

	o.log.Info(ctx, "protected route without credential", "route", path)
	o.notifyOnce(ctx, noticeLoginRequired, notify.SeverityError, o.texts.T(i18n.MsgLoginRequired))
	o.router.Replace(o.routes.Fallback())
}

// Poll compares the stored credential with the session. A signed-in session
// whose credential disappeared is dropped and the user told so.
func (o *Orchestrator) Poll(ctx context.Context) {
	if !o.session.Snapshot().Authenticated() {
		return
	}
	_, ok, err := o.creds.Get(ctx)
	if err != nil {
		o.log.Warn(ctx, "credential check failed", "error", err)
		return
	}
	if ok || !o.session.Desync() {
		return
	}

	o.log.Info(ctx, "session desync", "error", api.ErrSessionDesync)
	if err := o.creds.Clear(ctx); err != nil {
		o.log.Error(ctx, "clear credential", "error", err)
	}
	o.notifyOnce(ctx, noticeSessionExpired, notify.SeverityError, o.texts.T(i18n.MsgSessionExpired))
	o.leaveProtected()
}

// onUnauthorized runs inside the transport when a credentialed call comes
// back 401. Responses for a credential that has since been replaced are
// ignored.
func (o *Orchestrator) onUnauthorized(ctx context.Context, req *http.Request) {
	sent := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	if cur, ok := o.credential(ctx); ok && string(cur) != sent {
		return
	}

	msg := o.texts.T(i18n.MsgSessionExpired)
	if err := o.creds.Clear(ctx); err != nil {
		o.log.Error(ctx, "clear credential", "error", err)
	}
	if !o.session.Expire(models.ErrorRecord{Status: models.StatusFail, Message: msg}) {
		return
	}
	o.log.Info(ctx, "credential rejected", "path", req.URL.Path)
	o.notifyOnce(ctx, noticeSessionExpired, notify.SeverityError, msg)
	o.leaveProtected()
}

// Login signs in with the form. Failures are returned as *api.AuthError or
// *models.ValidationError; the stored credential is only written on success.
// A logout landing while the login is in flight wins and Login returns
// ErrLoginSuperseded.
func (o *Orchestrator) Login(ctx context.Context, form models.LoginRequest) (*models.User, error) {
	if err := models.Validate(form); err != nil {
		return nil, err
	}
	attempt := o.session.BeginLogin()

	res, err := o.gw.Login(ctx, form)
	if err != nil {
		o.session.LoginFailed(attempt, api.Normalize(err))
		return nil, err
	}
	return o.completeLogin(ctx, attempt, res)
}

// Register creates the account and signs the new user in. A backend that
// answers registration without a token gets a regular login.
func (o *Orchestrator) Register(ctx context.Context, form models.RegisterUserRequest) (*models.User, error) {
	if err := models.Validate(form); err != nil {
		return nil, err
	}
	attempt := o.session.BeginLogin()

	res, err := o.gw.Register(ctx, form)
	if err != nil {
		o.session.LoginFailed(attempt, api.Normalize(err))
		return nil, err
	}
	o.notifier.Notify(notify.New(notify.SeveritySuccess, o.texts.T(i18n.MsgRegistered)))

	if !o.session.Pending(attempt) {
		return nil, ErrLoginSuperseded
	}
	if res == nil || res.Token == "" {
		return o.Login(ctx, models.LoginRequest{Email: form.Email, Password: form.Password})
	}
	return o.completeLogin(ctx, attempt, res)
}

func (o *Orchestrator) completeLogin(ctx context.Context, attempt session.Attempt, res *models.LoginResult) (*models.User, error) {
	if !o.session.Pending(attempt) {
		o.log.Info(ctx, "login result dropped")
		return nil, ErrLoginSuperseded
	}
	token := credentials.Credential(res.Token)
	if err := o.creds.Set(ctx, token); err != nil {
		o.session.LoginFailed(attempt, api.Normalize(err))
		return nil, err
	}

	user := res.User
	if user == nil {
		u, err := o.gw.FetchCurrentUser(ctx)
		if err != nil {
			o.discard(ctx, token)
			if !o.session.LoginFailed(attempt, api.Normalize(err)) {
				return nil, ErrLoginSuperseded
			}
			return nil, err
		}
		user = u
	}

	if !o.session.LoginSucceeded(attempt, user) {
		o.log.Info(ctx, "login result dropped", "user_id", user.ID)
		o.discard(ctx, token)
		return nil, ErrLoginSuperseded
	}
	o.log.Info(ctx, "logged in", "user_id", user.ID)
	o.notifier.Notify(notify.New(notify.SeveritySuccess, o.texts.T(i18n.MsgWelcome, user.DisplayName())))
	return user, nil
}

// discard clears token unless another login has stored a different one.
func (o *Orchestrator) discard(ctx context.Context, token credentials.Credential) {
	cur, ok := o.credential(ctx)
	if !ok || cur != token {
		return
	}
	if err := o.creds.Clear(ctx); err != nil {
		o.log.Error(ctx, "clear credential", "error", err)
	}
}

// Logout ends the session. It wins over any fetch still in flight.
func (o *Orchestrator) Logout(ctx context.Context) error {
	o.session.Logout()
	err := o.creds.Clear(ctx)
	o.log.Info(ctx, "logged out")
	o.notifier.Notify(notify.New(notify.SeveritySuccess, o.texts.T(i18n.MsgLoggedOut)))
	o.leaveProtected()
	return err
}

func (o *Orchestrator) leaveProtected() {
	if o.routes.IsProtected(o.router.Current()) {
		o.router.Replace(o.routes.Fallback())
	}
}

// credential reads the store; read errors count as no credential.
func (o *Orchestrator) credential(ctx context.Context) (credentials.Credential, bool) {
	c, ok, err := o.creds.Get(ctx)
	if err != nil {
		o.log.Warn(ctx, "credential read failed", "error", err)
		return "", false
	}
	return c, ok
}

// notifyOnce emits text unless the same kind was already emitted for the
// current session version, credential presence and navigation.
func (o *Orchestrator) notifyOnce(ctx context.Context, kind noticeKind, sev notify.Severity, text string) {
	_, present := o.credential(ctx)
	key := noticeKey{version: o.session.Snapshot().Version, present: present}

	o.mu.Lock()
	if kind == noticeLoginRequired {
		key.nav = o.nav
	}
	if last, seen := o.notified[kind]; seen && last == key {
		o.mu.Unlock()
		return
	}
	o.notified[kind] = key
	o.mu.Unlock()

	o.notifier.Notify(notify.New(sev, text))
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sportclub/internal/client/credentials"
	"github.com/dmitrijs2005/sportclub/internal/client/models"
	"github.com/dmitrijs2005/sportclub/internal/client/navigation"
	"github.com/dmitrijs2005/sportclub/internal/client/routes"
	"github.com/dmitrijs2005/sportclub/internal/client/session"
	"github.com/dmitrijs2005/sportclub/internal/logging"
	"golang.org/x/text/language"
)

// SessionController is what the CLI needs from the orchestrator.
type SessionController interface {
	State() session.State
	Login(ctx context.Context, form models.LoginRequest) (*models.User, error)
	Register(ctx context.Context, form models.RegisterUserRequest) (*models.User, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// UserDirectory lists club members and changes the signed-in user's plan.
type UserDirectory interface {
	ListUsers(ctx context.Context, page, limit int) (*models.Page[models.User], error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UsersByGroup(ctx context.Context, groupID string) ([]models.User, error)
	UsersByEvent(ctx context.Context, eventID string) ([]models.User, error)
	ChangeSubscription(ctx context.Context, subscriptionID string) (*models.User, error)
}

// Languages switches the interface language.
type Languages interface {
	Language() language.Tag
	Set(ctx context.Context, raw string) (language.Tag, bool, error)
	RightToLeft() bool
}

// Deps are the collaborators the App drives.
type Deps struct {
	Session     SessionController
	Users       UserDirectory
	Router      *navigation.Router
	Routes      *routes.Table
	Languages   Languages
	Credentials credentials.Source
	Logger      logging.Logger
	In          io.Reader
	Out         io.Writer
	PageSize    int
}

type App struct {
	session  SessionController
	users    UserDirectory
	router   *navigation.Router
	routes   *routes.Table
	langs    Languages
	creds    credentials.Source
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	pageSize int
}

func NewApp(d Deps) *App {
	a := &App{
		session:  d.Session,
		users:    d.Users,
		router:   d.Router,
		routes:   d.Routes,
		langs:    d.Languages,
		creds:    d.Credentials,
		log:      d.Logger,
		reader:   bufio.NewReader(d.In),
		out:      d.Out,
		pageSize: d.PageSize,
	}
	if a.log == nil {
		a.log = logging.Discard()
	}
	if a.routes == nil {
		a.routes = routes.NewTable()
	}
	if a.pageSize <= 0 {
		a.pageSize = 10
	}
	return a
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the sportclub CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

func (a *App) getStatus() string {
	st := a.session.State()
	who := "guest"
	switch {
	case st.Authenticated():
		who = st.User.DisplayName()
	case st.IsAuthenticating:
		who = "..."
	}
	return fmt.Sprintf("(%s %s)", who, a.router.Current())
}

// report prints err in its normalized form.
func (a *App) report(err error) error {
	if err != nil {
		fmt.Fprintln(a.out, "Error:", describeError(err))
	}
	return err
}

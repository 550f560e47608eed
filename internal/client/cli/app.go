package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/client/config"
	"github.com/dmitrijs2005/codeauth/internal/client/cooldown"
	"github.com/dmitrijs2005/codeauth/internal/client/services"
	"github.com/dmitrijs2005/codeauth/internal/client/session"
	"github.com/dmitrijs2005/codeauth/internal/client/storage"
	"github.com/dmitrijs2005/codeauth/internal/logging"
)

// loginFlow is the part of services.LoginFlow the commands use.
type loginFlow interface {
	RequestCode(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, email, password, code string) (session.Credential, error)
	Cooldown() int
	Close()
}

// registrationFlow is the part of services.Registration the commands use.
type registrationFlow interface {
	Step() services.Step
	Email() string
	Cooldown() int
	Advance(ctx context.Context, email string) error
	Resend(ctx context.Context) error
	Complete(ctx context.Context, password, confirm, code string) error
	Back() error
	Close()
}

type memberService interface {
	LastLoginTime(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	store        *session.Store
	api          client.Client
	login        loginFlow
	registration registrationFlow
	member       memberService
	in           io.Reader
	reader       *bufio.Reader
	out          io.Writer
}

// NewApp opens the session database and wires the store, the authorizing
// API client and the flows. The caller must Close the app or call Run,
// which closes it on return.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	db, err := storage.Open(ctx, c.SessionDSN)
	if err != nil {
		logger.Error(ctx, "error initializing session database", "error", err)
		return nil, err
	}

	store := session.NewStore(
		session.WithMirror(session.NewSQLiteMirror(db)),
		session.WithLogger(logger),
	)
	if err := store.Restore(ctx); err != nil {
		logger.Warn(ctx, "could not restore session", "error", err)
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, client.NewAuthorizer(nil, store, logger), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		store:        store,
		api:          api,
		login:        services.NewLoginFlow(api, store, cooldown.New(c.CodeCooldown), logger),
		registration: services.NewRegistration(api, cooldown.New(c.CodeCooldown), logger),
		member:       services.NewMemberService(api, store, logger),
		in:           os.Stdin,
		out:          os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits or ctx is cancelled.
// Input reads are bound to ctx, so a cancelled REPL returns without waiting
// for another line. The app is closed only after the REPL has returned.
func (a *App) Run(ctx context.Context) error {
	a.reader = bufio.NewReader(newContextReader(ctx, a.in))
	a.Root(ctx)

	if ctx.Err() != nil {
		printlnFn()
		a.logger.Info(ctx, "interrupted, shutting down")
	}

	return a.Close(context.Background())
}

// Close stops the cooldowns, wipes the session mirror and releases the
// database and HTTP connections.
func (a *App) Close(ctx context.Context) error {
	a.login.Close()
	a.registration.Close()

	return errors.Join(
		a.store.Close(ctx),
		a.api.Close(),
		a.db.Close(),
	)
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

// report prints a user-facing description of err and returns it.
func (a *App) report(err error) error {
	printlnFn(describeError(err))
	return err
}

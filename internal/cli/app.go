package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/module/auth"
	"github.com/fugevet/fintrack/internal/module/transactions"
	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/pkg/logger"
	"github.com/fugevet/fintrack/pkg/money"
)

// TransactionService is what the commands need from transactions.Service
type TransactionService interface {
	FetchAll(ctx context.Context) ([]transaction.Transaction, error)
	Create(ctx context.Context, req transaction.CreateRequest) (*transaction.Transaction, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	Cached(ctx context.Context) ([]transaction.Transaction, bool, error)
	Forget(ctx context.Context)
}

// AuthService is what the commands need from auth.Service
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*finapi.User, error)
	Login(ctx context.Context, email, password string) (*session.Session, error)
}

// MethodResolver maps payment method shorthands to canonical names
type MethodResolver interface {
	Resolve(input string) string
}

// SessionStore persists the logged-in session between invocations
type SessionStore interface {
	Load() (*session.Session, error)
	Save(s *session.Session) error
	Clear() error
}

// App dispatches fintrack subcommands
type App struct {
	Transactions TransactionService
	Auth         AuthService
	Sessions     SessionStore
	Format       *money.Formatter
	Methods      MethodResolver
	Logger       *logger.Logger

	Out io.Writer
	Err io.Writer

	// Now is overridable for tests
	Now func() time.Time
}

type command struct {
	name    string
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{"register", "create an account", (*App).runRegister},
	{"login", "log in and remember the session", (*App).runLogin},
	{"logout", "forget the saved session", (*App).runLogout},
	{"list", "show totals and transactions", (*App).runList},
	{"report", "show income/expense bars and the expense breakdown", (*App).runReport},
	{"add", "record a new transaction", (*App).runAdd},
	{"delete", "delete a transaction by id", (*App).runDelete},
}

// Run executes the subcommand in args and returns the process exit code
func (a *App) Run(ctx context.Context, args []string) int {
	if a.Now == nil {
		a.Now = time.Now
	}
	if len(args) == 0 {
		a.usage()
		return 2
	}

	name := args[0]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(a, ctx, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		default:
			a.Logger.Debug("command failed", "command", name, "error", err)
			fmt.Fprintln(a.Err, errorStyle.Render("Error: ")+describe(err))
			return 1
		}
	}

	fmt.Fprintf(a.Err, "unknown command %q\n\n", name)
	a.usage()
	return 2
}

func (a *App) usage() {
	var b strings.Builder
	b.WriteString("Usage: fintrack [-v] <command> [flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "  %-10s %s\n", c.name, c.summary)
	}
	b.WriteString("\nRun 'fintrack <command> -h' for command flags.\n")
	fmt.Fprint(a.Err, b.String())
}

var errUsage = errors.New("usage")

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

// parse wraps FlagSet.Parse so that bad flags map to errUsage
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errUsage
	}
	return nil
}

// withSession attaches the saved session to ctx when there is one
func (a *App) withSession(ctx context.Context) context.Context {
	s, err := a.Sessions.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			a.Logger.Warn("ignoring unreadable session", "error", err)
		}
		return ctx
	}
	return session.WithContext(ctx, s)
}

// describe turns an error into a message for the terminal
func describe(err error) string {
	var fe *auth.FieldErrors
	switch {
	case errors.As(err, &fe):
		return "Please fix the following:\n" + fe.Error()
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrInvalidSession):
		return "You are not logged in. Run 'fintrack login' first."
	case finapi.IsTransport(err):
		return "Could not reach the server. Check your connection and FINTRACK_API_URL."
	case finapi.IsNotFound(err):
		return "Not found on the server."
	case errors.Is(err, transactions.ErrUnexpectedShape):
		return "The server returned an unexpected response."
	case errors.Is(err, auth.ErrEmailTaken):
		return "This email is already registered."
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password."
	default:
		return err.Error()
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/internal/report"
	"github.com/fugevet/fintrack/pkg/money"
)

var errDeleteFailed = errors.New("the transaction could not be deleted")

func (a *App) runRegister(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (at least 6 characters)")
	if err := parse(fs, args); err != nil {
		return err
	}

	if _, err := a.Auth.Register(ctx, *name, *email, *password); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, successStyle.Render("Account created."), "You can now run 'fintrack login'.")
	return nil
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := parse(fs, args); err != nil {
		return err
	}

	s, err := a.Auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.Sessions.Save(s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Fprintf(a.Out, "Welcome, %s.\n", titleStyle.Render(displayName(s.Name, s.Email)))
	return nil
}

func (a *App) runLogout(ctx context.Context, args []string) error {
	if err := parse(a.flagSet("logout"), args); err != nil {
		return err
	}
	a.Transactions.Forget(a.withSession(ctx))
	if err := a.Sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Fprintln(a.Out, "Logged out.")
	return nil
}

func (a *App) runList(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	typ := fs.String("type", "all", "all, income or expense")
	query := fs.String("q", "", "search description, payee and payment method")
	if err := parse(fs, args); err != nil {
		return err
	}
	filter, ok := report.ParseTypeFilter(*typ)
	if !ok {
		fmt.Fprintf(a.Err, "invalid -type %q: want all, income or expense\n", *typ)
		return errUsage
	}

	txs, err := a.Transactions.FetchAll(a.withSession(ctx))
	if err != nil {
		return err
	}

	summary := report.Summarize(txs, filter, *query)
	fmt.Fprintln(a.Out, renderCards(a.Format, summary.Totals))
	fmt.Fprintln(a.Out)
	fmt.Fprint(a.Out, renderRows(a.Format, summary.Transactions))
	return nil
}

func (a *App) runReport(ctx context.Context, args []string) error {
	fs := a.flagSet("report")
	cached := fs.Bool("cached", false, "use the last fetched list when available")
	if err := parse(fs, args); err != nil {
		return err
	}

	ctx = a.withSession(ctx)
	txs, err := a.reportData(ctx, *cached)
	if err != nil {
		return err
	}

	bars := report.IncomeExpenseBars(report.ComputeTotals(txs))
	fmt.Fprint(a.Out, renderBars(a.Format, bars))
	fmt.Fprintln(a.Out)
	fmt.Fprint(a.Out, renderBreakdown(a.Format, report.ExpenseBreakdown(txs)))
	return nil
}

func (a *App) reportData(ctx context.Context, useCache bool) ([]transaction.Transaction, error) {
	if useCache {
		txs, ok, err := a.Transactions.Cached(ctx)
		if err != nil {
			a.Logger.Warn("cache read failed, fetching", "error", err)
		} else if ok {
			return txs, nil
		}
	}
	return a.Transactions.FetchAll(ctx)
}

func (a *App) runAdd(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	desc := fs.String("desc", "", "description")
	amount := fs.String("amount", "", "amount, e.g. 150,75 or 150.75")
	income := fs.Bool("income", false, "record as income (default expense)")
	payee := fs.String("payee", "", "company or person")
	method := fs.String("method", transaction.MethodCash, "payment method or alias (cash, card, transfer)")
	date := fs.String("date", "", "date as YYYY-MM-DD or YYYY-MM-DD HH:MM (default now)")
	if err := parse(fs, args); err != nil {
		return err
	}

	magnitude, err := money.ParsePositiveInput(*amount)
	if err != nil {
		return fmt.Errorf("please enter a valid positive amount")
	}
	when, err := a.parseDate(*date)
	if err != nil {
		return err
	}

	if a.Methods != nil {
		*method = a.Methods.Resolve(*method)
	}

	req := transaction.NewCreateRequest(*desc, magnitude, *income, *method, *payee, when)
	tx, err := a.Transactions.Create(a.withSession(ctx), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.Out, successStyle.Render("Added:"))
	fmt.Fprint(a.Out, renderRows(a.Format, []transaction.Transaction{*tx}))
	return nil
}

func (a *App) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return a.Now(), nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid -date %q: use YYYY-MM-DD", s)
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.Int64("id", 0, "transaction id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		fmt.Fprintln(a.Err, "-id is required")
		return errUsage
	}

	ok, err := a.Transactions.DeleteByID(a.withSession(ctx), *id)
	if err != nil {
		return err
	}
	if !ok {
		return errDeleteFailed
	}
	fmt.Fprintf(a.Out, "Deleted transaction %d.\n", *id)
	return nil
}

func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return email
}

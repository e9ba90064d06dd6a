package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aussiebroadwan/stockbook/internal/stockbook/store"
	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

var (
	// ErrNotLoggedIn is returned by commands that need a session when none
	// is stored.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrSessionExpired is returned when the API rejected the session and it
	// could not be refreshed.
	ErrSessionExpired = errors.New("session expired")

	// ErrUsage marks bad command line input.
	ErrUsage = errors.New("usage")
)

type runFunc func(ctx context.Context, args []string) error

type command struct {
	name    string
	usage   string
	summary string

	// public commands run without a stored session.
	public bool

	run runFunc
}

func (app *Application) commands() []command {
	return []command{
		{name: "login", usage: "login -username NAME [-password PASS]", summary: "log in and store the session", public: true, run: app.login},
		{name: "register", usage: "register -username NAME -email EMAIL -business NAME [-phone N] [-address A]", summary: "create an account", public: true, run: app.register},
		{name: "logout", usage: "logout", summary: "forget the stored session", public: true, run: app.logout},
		{name: "status", usage: "status", summary: "show the stored session", public: true, run: app.status},
		{name: "dashboard", usage: "dashboard [-product ID]", summary: "weekly sales", run: app.dashboard},
		{name: "catalog", usage: "catalog", summary: "stock and products together", run: app.catalog},
		{name: "stock", usage: "stock list|add|update|delete", summary: "manage raw materials", run: app.group("stock", map[string]runFunc{
			"list":   app.stockList,
			"add":    app.stockAdd,
			"update": app.stockUpdate,
			"delete": app.stockDelete,
		})},
		{name: "products", usage: "products list|add|update|delete", summary: "manage products and recipes", run: app.group("products", map[string]runFunc{
			"list":   app.productsList,
			"add":    app.productsAdd,
			"update": app.productsUpdate,
			"delete": app.productsDelete,
		})},
		{name: "ingredients", usage: "ingredients add|delete", summary: "edit recipe lines", run: app.group("ingredients", map[string]runFunc{
			"add":    app.ingredientsAdd,
			"delete": app.ingredientsDelete,
		})},
		{name: "transactions", usage: "transactions list|add|delete", summary: "record and review sales", run: app.group("transactions", map[string]runFunc{
			"list":   app.transactionsList,
			"add":    app.transactionsAdd,
			"delete": app.transactionsDelete,
		})},
		{name: "profile", usage: "profile show|update|password", summary: "view and edit the account", run: app.group("profile", map[string]runFunc{
			"show":     app.profileShow,
			"update":   app.profileUpdate,
			"password": app.profilePassword,
		})},
	}
}

// Run executes one command line. args excludes the program name.
func (app *Application) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || isHelp(args[0]) {
		app.usage(app.out)
		if len(args) == 0 {
			return fmt.Errorf("%w: no command given", ErrUsage)
		}
		return nil
	}

	cmds := app.commands()
	idx := slices.IndexFunc(cmds, func(c command) bool { return c.name == args[0] })
	if idx < 0 {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	cmd := cmds[idx]

	app.logger.Debug("running command", "command", cmd.name)
	if cmd.public {
		return cmd.run(ctx, args[1:])
	}

	if err := app.requireSession(ctx); err != nil {
		return err
	}
	return app.explain(ctx, cmd.run(ctx, args[1:]))
}

// requireSession is the route guard for commands that talk to the
// authenticated API.
func (app *Application) requireSession(ctx context.Context) error {
	ok, err := app.client.IsLoggedIn(ctx)
	if errors.Is(err, store.ErrCorruptSession) {
		return fmt.Errorf("%w (run \"stockbook logout\" to reset it)", err)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: run \"stockbook login\" first", ErrNotLoggedIn)
	}
	return nil
}

// explain turns a 401 that cost the session into ErrSessionExpired.
func (app *Application) explain(ctx context.Context, err error) error {
	if err == nil || !stocksdk.IsUnauthorized(err) {
		return err
	}
	if ok, loadErr := app.client.IsLoggedIn(ctx); loadErr == nil && !ok {
		return fmt.Errorf("%w, run \"stockbook login\" again: %w", ErrSessionExpired, err)
	}
	return err
}

func (app *Application) group(name string, subs map[string]runFunc) runFunc {
	return func(ctx context.Context, args []string) error {
		names := make([]string, 0, len(subs))
		for k := range subs {
			names = append(names, k)
		}
		slices.Sort(names)

		if len(args) == 0 {
			return fmt.Errorf("%w: %s %s", ErrUsage, name, strings.Join(names, "|"))
		}
		run, ok := subs[args[0]]
		if !ok {
			return fmt.Errorf("%w: unknown %s command %q (want %s)", ErrUsage, name, args[0], strings.Join(names, "|"))
		}
		return run(ctx, args[1:])
	}
}

func (app *Application) usage(w io.Writer) {
	fmt.Fprintln(w, "usage: stockbook <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range app.commands() {
		fmt.Fprintf(w, "  %-58s %s\n", c.usage, c.summary)
	}
}

// newFlags returns a flag set that reports errors instead of exiting.
func (app *Application) newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("stockbook "+name, flag.ContinueOnError)
	fs.SetOutput(app.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: -%s is required", ErrUsage, name)
	}
	return nil
}

func isHelp(arg string) bool {
	switch arg {
	case "help", "-h", "-help", "--help":
		return true
	}
	return false
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

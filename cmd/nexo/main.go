// Command nexo is the terminal client for the nexo expense-tracking
// API: login and session handling, category and cost CRUD, and a
// monthly report view.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tyha2404/nexo-app/internal/api"
	"github.com/tyha2404/nexo-app/internal/cli"
	"github.com/tyha2404/nexo-app/internal/config"
	"github.com/tyha2404/nexo-app/internal/core"
	applog "github.com/tyha2404/nexo-app/internal/log"
	"github.com/tyha2404/nexo-app/internal/services"
)

const usageText = `Usage: nexo <command> [flags]

Commands:
  login            Sign in and persist the session
  logout           Clear the persisted session
  whoami           Show the current user and token details
  forgot-password  Request a password reset email
  reset-password   Set a new password with a reset token
  categories       Manage expense categories (list|add|show|edit|rm)
  costs            Manage expenses (list|add|show|edit|rm)
  report           Show a month of expenses grouped by day

Environment:
  API_URL           Base URL of the nexo API (required)
  APP_ENV           development | staging | production
  SESSION_DB_PATH   Path of the local session database
  DEFAULT_CURRENCY  Currency used when adding costs (default VND)
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the explicitly constructed services the commands use.
// Everything is wired once here and passed down; there are no package
// level singletons.
type app struct {
	cfg        *config.Config
	logger     *applog.Logger
	store      api.SessionStore
	transport  *api.Transport
	auth       *api.AuthService
	categories *api.Resource[core.Category]
	costs      *api.Resource[core.Cost]
	browser    *services.ExpenseBrowser

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(stdout, usageText)
		if len(args) == 0 {
			return errors.New("missing command")
		}
		return nil
	}

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitSessionStore(logger, cfg.SessionDBPath)
	defer store.Close()

	transport, err := api.NewTransport(api.TransportOptions{
		BaseURL: cfg.APIBaseURL,
		Session: store,
		OnUnauthorized: func() {
			fmt.Fprintln(stderr, "Session expired. Run 'nexo login' to sign in again.")
		},
		Logger: logger.WithComponent(applog.ComponentTransport),
	})
	if err != nil {
		return err
	}

	categories := api.NewCategoryClient(transport, logger.WithComponent(applog.ComponentResource))
	costs := api.NewCostClient(transport, logger.WithComponent(applog.ComponentResource))

	a := &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		transport:  transport,
		auth:       api.NewAuthService(transport, store, logger.WithComponent(applog.ComponentAuth)),
		categories: categories,
		costs:      costs,
		browser:    services.NewExpenseBrowser(costs, categories, logger.WithComponent(applog.ComponentBrowser)),
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
	}

	ctx := context.Background()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoAmI(ctx)
	case "forgot-password":
		return a.cmdForgotPassword(ctx, rest)
	case "reset-password":
		return a.cmdResetPassword(ctx, rest)
	case "categories":
		return a.cmdCategories(ctx, rest)
	case "costs":
		return a.cmdCosts(ctx, rest)
	case "report":
		return a.cmdReport(ctx, rest)
	default:
		fmt.Fprint(stderr, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// requireUser is the CLI's route guard: the presence of a stored user
// decides whether the authenticated area is reachable, independent of
// token validity. A stale token is evicted lazily by the first 401.
func (a *app) requireUser(ctx context.Context) (*core.User, error) {
	user := a.auth.BootstrapUser(ctx)
	if user == nil {
		return nil, errors.New("not logged in: run 'nexo login' first")
	}
	return user, nil
}

// Command shelfstock runs inventory operations from the command line.
// Every command prints JSON on stdout; logs and errors go to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shelfstock/internal/auth"
	"github.com/JonMunkholm/shelfstock/internal/config"
	"github.com/JonMunkholm/shelfstock/internal/core"
	"github.com/JonMunkholm/shelfstock/internal/database"
	"github.com/JonMunkholm/shelfstock/internal/logging"
	"github.com/JonMunkholm/shelfstock/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, release := newRootCmd(boot)
	err := root.ExecuteContext(ctx)
	release()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		stop()
		os.Exit(1)
	}
}

// inventory is the core surface the commands use. *core.Service satisfies it.
type inventory interface {
	web.Inventory
	ClearCatalog(ctx context.Context) error
}

// userStore is the credential surface. *auth.Store satisfies it.
type userStore interface {
	web.Authenticator
	SeedDefault(ctx context.Context, name, password string) (bool, error)
	DeleteAll(ctx context.Context) error
}

// app holds what a command needs once booted.
type app struct {
	inv   inventory
	users userStore
	cfg   *config.Config
	close func()
}

type bootFunc func(ctx context.Context) (*app, error)

// boot loads configuration, opens the pool and prepares both schemas.
func boot(ctx context.Context) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	svc := core.NewService(pool,
		core.WithImportWait(cfg.Import.MaxWait),
		core.WithImportTimeout(cfg.Import.Timeout),
	)
	if err := svc.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	users, err := auth.NewStore(pool, cfg.Auth.BcryptCost)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := users.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := users.SeedDefault(ctx, cfg.Auth.SeedUser, cfg.Auth.SeedPassword); err != nil {
		pool.Close()
		return nil, err
	}

	return &app{inv: svc, users: users, cfg: cfg, close: pool.Close}, nil
}

// newRootCmd builds the command tree. boot runs once before any
// subcommand. The returned release closes the booted app whether or not the
// command succeeded and is safe to call when boot never ran.
func newRootCmd(bootFn bootFunc) (*cobra.Command, func()) {
	var a *app

	release := func() {
		if a != nil && a.close != nil {
			a.close()
		}
		a = nil
	}

	root := &cobra.Command{
		Use:           "shelfstock",
		Short:         "Shelfstock inventory command line",
		Long:          "Manage sections, types, products and batches, move stock and exchange CSV files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = bootFn(cmd.Context())
			return err
		},
	}

	get := func() *app { return a }

	// Catalog
	root.AddCommand(newSectionCmd(get))
	root.AddCommand(newTypeCmd(get))
	root.AddCommand(newProductCmd(get))
	root.AddCommand(newBatchCmd(get))

	// Stock
	root.AddCommand(newStockCmd(get))

	// Report and CSV
	root.AddCommand(newReportCmd(get))
	root.AddCommand(newExportCmd(get))
	root.AddCommand(newImportCmd(get))

	// Credentials and maintenance
	root.AddCommand(newLoginCmd(get))
	root.AddCommand(newResetCmd(get))

	return root, release
}

// errorText renders err for stderr. Inventory errors use the mapped user
// message; storage details stay in the log.
func errorText(err error) string {
	switch {
	case core.IsUserFacing(err):
		return core.FormatUserError(err) + "\n  " + err.Error()
	case errors.Is(err, core.ErrStorage):
		return core.FormatUserError(err)
	default:
		return "Error: " + err.Error()
	}
}

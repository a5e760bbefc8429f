package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pizzapos/config"
	// Import migrations so their init() funcs register the schema steps.
	_ "github.com/shashiranjanraj/pizzapos/database/migrations"
	"github.com/shashiranjanraj/pizzapos/internal/bootstrap"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir string
	store   string
	disk    string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "pizzapos",
		Short:         "Pizza point-of-sale order engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			if flags.dataDir != "" {
				config.Set("DATA_DIR", flags.dataDir)
			}
			if flags.store != "" {
				config.Set("STORE_DRIVER", flags.store)
			}
			if flags.disk != "" {
				config.Set("STORAGE_DISK", flags.disk)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory holding the flat record files (DATA_DIR)")
	pf.StringVar(&flags.store, "store", "", "record store backend: flatfile or sql (STORE_DRIVER)")
	pf.StringVar(&flags.disk, "disk", "", "archive and backup disk: local or s3 (STORAGE_DISK)")

	// Server
	root.AddCommand(newServeCmd())
	root.AddCommand(newRoutesCmd())

	// Database
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newMigrateRollbackCmd())
	root.AddCommand(newMigrateStatusCmd())
	root.AddCommand(newSeedCmd())

	// Workflows
	root.AddCommand(newMenuCmd())
	root.AddCommand(newOrderCmd())
	root.AddCommand(newDriverCmd())
	root.AddCommand(newUserCmd())

	// Back office
	root.AddCommand(newReportCmd())
	root.AddCommand(newResetSalesCmd())
	root.AddCommand(newBackupCmd())

	return root
}

// withApp boots the configured store and services for one command.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := bootstrap.Boot(cmd.Context(), bootstrap.Options{LogOutput: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(cmd.Context(), app)
}

// asActor tags the command's log lines with the acting user.
func asActor(ctx context.Context, actor string) context.Context {
	return logger.InjectLogger(ctx, logger.WithCtx(ctx).With("actor", actor, "via", "cli"))
}

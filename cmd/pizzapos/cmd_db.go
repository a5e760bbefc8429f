package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzapos/database/seeders"
	"github.com/shashiranjanraj/pizzapos/internal/bootstrap"
	"github.com/shashiranjanraj/pizzapos/pkg/database"
	"github.com/shashiranjanraj/pizzapos/pkg/migration"
)

// withDB opens the SQL database named by DB_DRIVER and DATABASE_DSN.
func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

// pizzapos migrate
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending SQL store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
				_, err := migration.New(db).WithOutput(cmd.OutOrStdout()).Run()
				return err
			})
		},
	}
}

// pizzapos migrate:rollback
func newMigrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Roll back the last batch of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
				_, err := migration.New(db).WithOutput(cmd.OutOrStdout()).Rollback()
				return err
			})
		},
	}
}

// pizzapos migrate:status
func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				return migration.New(db).WithOutput(cmd.OutOrStdout()).PrintStatus()
			})
		},
	}
}

// pizzapos seed
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default demo accounts that are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
				n, err := seeders.RunAll(app.Store, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeding complete (%d records created)\n", n)
				return nil
			})
		},
	}
}

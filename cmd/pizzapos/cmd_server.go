package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/pizzapos/config"
	"github.com/shashiranjanraj/pizzapos/internal/bootstrap"
	"github.com/shashiranjanraj/pizzapos/internal/server"
	"github.com/shashiranjanraj/pizzapos/pkg/auth"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/schedule"
)

// pizzapos serve
func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"run"},
		Short:   "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.Boot(ctx, bootstrap.Options{Notify: true, LogOutput: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer app.Close()

			if port == "" {
				port = config.AppPort()
			}
			h := server.NewRouter(app.Services, app.Issuer).Handler()

			sched, err := newScheduler(app, config.BackupCron())
			if err != nil {
				return err
			}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Run(gctx, ":"+port, h) })
			if sched != nil {
				g.Go(func() error { return sched.Run(gctx) })
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (APP_PORT)")
	return cmd
}

// newScheduler registers the nightly backup. It returns nil when expr is "off".
func newScheduler(app *bootstrap.App, expr string) (*schedule.Scheduler, error) {
	if expr == "" || expr == "off" {
		return nil, nil
	}
	s := schedule.New()
	err := s.Cron("backup", expr, func(ctx context.Context) {
		if _, err := app.Services.Backup.Run(logger.InjectLogger(ctx, logger.WithCtx(ctx).With("actor", "scheduler"))); err != nil {
			logger.Error("scheduled backup failed", "error", err)
		}
	})
	return s, err
}

// pizzapos routes
func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "routes",
		Aliases: []string{"route:list"},
		Short:   "List every HTTP route",
		RunE: func(cmd *cobra.Command, args []string) error {
			// route registration only needs the services to exist
			svc := bootstrap.NewServices(nil, nil, nil, auth.FromConfig())
			infos := server.NewRouter(svc, auth.FromConfig()).Routes()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}


// Package bootstrap wires the configured record store, archive disk, event
// bus and notifier into the service set used by the CLI and the HTTP server.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/app/store/sqlstore"
	"github.com/shashiranjanraj/pizzapos/config"
	"github.com/shashiranjanraj/pizzapos/database/migrations"
	"github.com/shashiranjanraj/pizzapos/internal/notify"
	"github.com/shashiranjanraj/pizzapos/pkg/auth"
	"github.com/shashiranjanraj/pizzapos/pkg/database"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/storage"
)

// RecordStore is a store that can also export itself in the flat-file layout.
type RecordStore interface {
	store.Store
	services.Snapshotter
}

// App is one booted process.
type App struct {
	Store    RecordStore
	Disk     storage.Disk
	Bus      *event.Bus
	Issuer   *auth.Issuer
	Services *services.Set

	notifier *notify.Notifier
}

// Options selects the optional parts of Boot.
type Options struct {
	// Notify connects the Redis notifier when REDIS_ADDR is set.
	Notify bool
	// LogOutput receives log lines. Defaults to stderr so command output on
	// stdout stays clean.
	LogOutput io.Writer
}

// Boot loads configuration and builds everything. Call Close when done.
func Boot(ctx context.Context, opts Options) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	w := opts.LogOutput
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(logger.New(config.AppEnv(), w))

	s, err := OpenStore()
	if err != nil {
		return nil, err
	}

	disk, err := storage.Open(ctx, config.StorageDisk())
	if err != nil {
		s.Close()
		return nil, err
	}

	a := &App{Store: s, Disk: disk, Bus: event.New(), Issuer: auth.FromConfig()}

	if opts.Notify {
		n, err := notify.FromConfig(ctx)
		if err != nil {
			// orders keep flowing without live notifications
			logger.Warn("notifications disabled", "error", err)
		} else if n != nil {
			n.Attach(a.Bus)
			a.notifier = n
		}
	}

	a.Services = NewServices(s, disk, a.Bus, a.Issuer)
	return a, nil
}

// NewServices builds the service set over one store.
func NewServices(s RecordStore, disk storage.Disk, bus *event.Bus, iss *auth.Issuer) *services.Set {
	cart := services.NewCartService(catalog.Default())
	return &services.Set{
		Cart:    cart,
		Orders:  services.NewOrderService(s, cart, bus),
		Admin:   services.NewAdminService(s, disk, bus),
		Drivers: services.NewDriverService(s, bus),
		Auth:    services.NewAuthService(s, iss),
		Backup:  services.NewBackupService(s, disk),
	}
}

// OpenStore opens the backend named by STORE_DRIVER. The SQL backend runs
// pending migrations first.
func OpenStore() (RecordStore, error) {
	switch driver := config.StoreDriver(); driver {
	case "sql":
		db, err := database.Connect()
		if err != nil {
			return nil, err
		}
		n, err := migrations.Apply(db)
		if err != nil {
			database.Close(db)
			return nil, fmt.Errorf("bootstrap: migrate: %w", err)
		}
		if n > 0 {
			logger.Info("migrations applied", "count", n)
		}
		return sqlstore.New(db), nil
	default:
		return flatfile.Open(config.DataDir())
	}
}

// Close drains notifications and closes the store.
func (a *App) Close() error {
	return errors.Join(a.notifier.Close(), a.Store.Close())
}

package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/app/store/sqlstore"
	"github.com/shashiranjanraj/pizzapos/config"
	"github.com/shashiranjanraj/pizzapos/internal/bootstrap"
)

func TestBootFlatfile(t *testing.T) {
	dir := t.TempDir()
	config.Set("STORE_DRIVER", "flatfile")
	config.Set("DATA_DIR", filepath.Join(dir, "data"))
	config.Set("STORAGE_DISK", "local")
	config.Set("STORAGE_LOCAL_ROOT", filepath.Join(dir, "disk"))

	app, err := bootstrap.Boot(context.Background(), bootstrap.Options{})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &flatfile.Store{}, app.Store)
	require.NotNil(t, app.Services.Orders)

	_, err = app.Services.Auth.Signup(context.Background(), servicesSignup("raph"))
	require.NoError(t, err)
	res, err := app.Services.Auth.Login(context.Background(), "raph", "sai-sai")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token, "booted auth service issues tokens")
}

func TestOpenStoreSQL(t *testing.T) {
	config.Set("STORE_DRIVER", "sql")
	config.Set("DB_DRIVER", "sqlite")
	config.Set("DATABASE_DSN", filepath.Join(t.TempDir(), "pizzapos.db"))
	t.Cleanup(func() { config.Set("STORE_DRIVER", "flatfile") })

	s, err := bootstrap.OpenStore()
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &sqlstore.Store{}, s)
	users, err := s.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func servicesSignup(name string) services.SignupInput {
	return services.SignupInput{Username: name, Password: "sai-sai"}
}

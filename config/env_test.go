package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMergesFilesAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"data_dir": "/srv/pos", "app_port": "9000", "ignored": 3}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nAPP_PORT=9100\nSTORE_DRIVER='sql'\nbroken line\n"), 0o644))
	t.Setenv("PIZZAPOS_JWT_SECRET", "from-env")

	require.NoError(t, LoadFrom(jsonPath, envPath))
	t.Cleanup(func() { _ = LoadFrom("", "") })

	assert.Equal(t, "/srv/pos", DataDir())
	assert.Equal(t, "9100", AppPort())
	assert.Equal(t, "sql", StoreDriver())
	assert.Equal(t, "from-env", JWTSecret())
}

func TestDriverFallbacks(t *testing.T) {
	require.NoError(t, LoadFrom(filepath.Join(t.TempDir(), "missing.json"), ""))
	t.Cleanup(func() { _ = LoadFrom("", "") })

	Set("STORE_DRIVER", "mongo")
	Set("DB_DRIVER", "oracle")

	assert.Equal(t, "flatfile", StoreDriver())
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Empty(t, RedisAddr())
}

func TestLoadFromRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Error(t, LoadFrom(path, ""))
}

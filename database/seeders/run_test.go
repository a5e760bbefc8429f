package seeders_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/database/seeders"
)

func TestRunAllSeedsDefaultUsersOnce(t *testing.T) {
	s, err := flatfile.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	assert.Contains(t, seeders.Names(), "users")

	var out bytes.Buffer
	n, err := seeders.RunAll(s, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, out.String(), "Running seeder: users")

	n, err = seeders.RunAll(s, &out)
	require.NoError(t, err)
	assert.Zero(t, n)

	users, err := s.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

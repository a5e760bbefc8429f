// Package migrations holds the SQL store schema. Each file registers its
// steps with migration.Register from init(); importing the package for side
// effects is enough to make them available to the runner.
package migrations

import (
	"io"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pizzapos/pkg/migration"
)

// Apply runs every pending migration against db quietly and returns how many
// ran.
func Apply(db *gorm.DB) (int, error) {
	return migration.New(db).WithOutput(io.Discard).Run()
}

// Package seeders provides a registry of seed functions that run against the
// configured record store.
//
// Usage (define a seeder in any file in this package):
//
//	func init() {
//	    seeders.Register("users", SeedUsers)
//	}
//
//	func SeedUsers(s store.Store) (int, error) {
//	    // append records …
//	    return created, nil
//	}
//
// Then run via CLI: pizzapos seed
package seeders

import (
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/pizzapos/app/store"
)

// SeederFunc appends records to s and returns how many it created. Seeders
// must be idempotent: running one twice creates nothing the second time.
type SeederFunc func(s store.Store) (int, error)

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
// Call this from init() in your seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists registered seeders in run order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// RunAll executes every registered seeder in registration order, writing
// progress to out. It stops on the first error and returns the total number
// of records created.
func RunAll(s store.Store, out io.Writer) (int, error) {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return 0, nil
	}

	total := 0
	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		n, err := e.fn(s)
		total += n
		if err != nil {
			fmt.Fprintln(out, "FAILED")
			return total, fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintf(out, "%d created\n", n)
	}
	return total, nil
}

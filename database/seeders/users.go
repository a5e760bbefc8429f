package seeders

import "github.com/shashiranjanraj/pizzapos/app/store"

func init() {
	Register("users", store.SeedDefaultUsers)
}

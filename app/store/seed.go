package store

import (
	"errors"

	"github.com/shashiranjanraj/pizzapos/app/models"
)

// DefaultUsers are the demo accounts every fresh install gets.
var DefaultUsers = []models.User{
	{Username: "customer", Password: "password123", Role: models.RoleCustomer},
	{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
	{Username: "driver", Password: "driver123", Role: models.RoleDriver},
}

// SeedDefaultUsers appends the default accounts that are missing and returns
// how many were created.
func SeedDefaultUsers(s Store) (int, error) {
	created := 0
	for _, u := range DefaultUsers {
		_, err := s.FindUser(u.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return created, err
		}
		if err := s.AppendUser(u); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

package models

import "strings"

// Role decides which workflows a user can drive.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleDriver   Role = "driver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleDriver:
		return true
	}
	return false
}

// ParseRole is case-insensitive.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", invalid("role", "unknown role %q", s)
	}
	return r, nil
}

// User is an account. Username is the key. Users are never updated or
// deleted once written.
//
// Password is kept in plain text.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return invalid("username", "is required")
	}
	if u.Password == "" {
		return invalid("password", "is required")
	}
	if !u.Role.Valid() {
		return invalid("role", "unknown role %q", u.Role)
	}
	return nil
}

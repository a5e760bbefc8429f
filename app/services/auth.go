package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/pkg/auth"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
)

// SignupInput is a new account request. An empty role means customer.
type SignupInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Password string `json:"password" validate:"required,plain,min=6,max=100"`
	Role     string `json:"role"     validate:"nullable,in=customer,admin,driver"`
}

// LoginResult is a successful login. Token is empty when the service has no
// token issuer (CLI use).
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// AuthService creates accounts and checks credentials. Passwords are compared
// in plain text, matching how users.txt stores them.
type AuthService struct {
	store  store.Store
	issuer *auth.Issuer

	// signup is check-then-append; mu keeps two signups for one name apart.
	mu sync.Mutex
}

func NewAuthService(s store.Store, issuer *auth.Issuer) *AuthService {
	return &AuthService{store: s, issuer: issuer}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	if err := check(in); err != nil {
		return models.User{}, err
	}
	role := models.RoleCustomer
	if in.Role != "" {
		r, err := models.ParseRole(in.Role)
		if err != nil {
			return models.User{}, err
		}
		role = r
	}
	u := models.User{Username: in.Username, Password: in.Password, Role: role}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.FindUser(u.Username)
	if err == nil {
		return models.User{}, ErrDuplicateUser
	}
	if !isNotFound(err) {
		return models.User{}, err
	}
	if err := s.store.AppendUser(u); err != nil {
		return models.User{}, fmt.Errorf("services: signup: %w", err)
	}
	logger.WithCtx(ctx).Info("user created", "username", u.Username, "role", u.Role)
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	u, err := s.store.FindUser(username)
	if isNotFound(err) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		logger.WithCtx(ctx).Info("login failed", "username", username)
		return LoginResult{}, ErrInvalidCredentials
	}

	res := LoginResult{User: u}
	if s.issuer != nil {
		tok, err := s.issuer.GenerateToken(u.Username, string(u.Role))
		if err != nil {
			return LoginResult{}, fmt.Errorf("services: login: %w", err)
		}
		res.Token = tok
	}
	return res, nil
}

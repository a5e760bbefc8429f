package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/pkg/middleware"
	"github.com/shashiranjanraj/pizzapos/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(s *services.AuthService) *AuthController {
	return &AuthController{service: s}
}

type credentials struct {
	Username string `json:"username" validate:"required,plain"`
	Password string `json:"password" validate:"required,plain"`
}

// Signup creates a customer account. Staff accounts are seeded or created
// from the CLI.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	u, err := c.service.Signup(r.Context(), services.SignupInput{
		Username: body.Username,
		Password: body.Password,
		Role:     string(models.RoleCustomer),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, map[string]string{"username": u.Username, "role": string(u.Role)})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	res, err := c.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{
		"token":    res.Token,
		"username": res.User.Username,
		"role":     string(res.User.Role),
	})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, map[string]string{"username": claims.Username, "role": claims.Role})
}

// Package controllers adapts the service workflows to JSON HTTP handlers.
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/pkg/bind"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/response"
)

// fail maps a service error onto the response envelope.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		input *services.InputError
		field *models.ValidationError
	)
	switch {
	case errors.As(err, &input):
		response.ValidationError(w, input.Fields)
	case errors.As(err, &field):
		response.ValidationError(w, map[string]string{field.Field: field.Message})
	case errors.Is(err, bind.ErrBody):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, services.ErrDuplicateUser):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrConfirmationRequired):
		response.Error(w, http.StatusPreconditionRequired, err.Error())
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotAssigned):
		response.Error(w, http.StatusForbidden, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode binds the request body into dest. It writes the response and
// returns false when the body is unusable.
func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	errs, err := bind.JSON(w, r, dest)
	if err != nil {
		fail(w, r, err)
		return false
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

func orderID(r *http.Request) string { return chi.URLParam(r, "id") }

// day parses the ?date=YYYY-MM-DD query parameter in local time. Empty means
// today.
func day(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	return t, nil
}

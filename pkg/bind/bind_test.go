package bind_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/pkg/bind"
)

type tipRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Note   string  `json:"note"   validate:"nullable,plain"`
}

func TestJSON(t *testing.T) {
	var in tipRequest
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"amount": 3.5}`))
	errs, err := bind.JSON(httptest.NewRecorder(), r, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, 3.5, in.Amount)
}

func TestJSONValidation(t *testing.T) {
	var in tipRequest
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"amount": -1, "note": "a|b"}`))
	errs, err := bind.JSON(httptest.NewRecorder(), r, &in)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "note"}, errs.Fields())
}

func TestJSONEmptyBody(t *testing.T) {
	var in tipRequest
	r := httptest.NewRequest("POST", "/", nil)
	errs, err := bind.JSON(httptest.NewRecorder(), r, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
}

func TestJSONMalformed(t *testing.T) {
	for _, body := range []string{`{"amount":`, `{"amount": 1, "extra": true}`, `[1]`} {
		var in tipRequest
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		_, err := bind.JSON(httptest.NewRecorder(), r, &in)
		assert.True(t, errors.Is(err, bind.ErrBody), body)
	}
}

func TestDecodeSkipsValidation(t *testing.T) {
	var in tipRequest
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"amount": -1}`))
	require.NoError(t, bind.Decode(httptest.NewRecorder(), r, &in))
	assert.Equal(t, -1.0, in.Amount)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"amount": 1, "extra": true}`))
	assert.ErrorIs(t, bind.Decode(httptest.NewRecorder(), r, &in), bind.ErrBody)
}

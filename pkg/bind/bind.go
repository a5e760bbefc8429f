// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/pizzapos/config"
	"github.com/shashiranjanraj/pizzapos/pkg/validate"
)

// ErrBody marks a body that could not be decoded at all.
var ErrBody = errors.New("bind: bad request body")

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// JSON decodes r.Body into dest and runs struct-tag validation. An empty body
// decodes as {}. It returns (errs, nil) on validation failures and
// (nil, err) wrapping ErrBody for malformed or oversized bodies.
func JSON(w http.ResponseWriter, r *http.Request, dest any) (validate.Errors, error) {
	if err := Decode(w, r, dest); err != nil {
		return nil, err
	}
	return validate.Struct(dest), nil
}

// Decode is JSON without validation, for handlers that fill fields from the
// request context before validating.
func Decode(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: larger than %d bytes", ErrBody, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", ErrBody, err)
	}
	return nil
}

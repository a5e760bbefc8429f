package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(v string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", v)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsAndNames(t *testing.T) {
	r := New()
	api := r.Group("/api/", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Post("/orders/{id}/cancel", "admin.cancel", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, tag("route"))
	r.Get("health", "", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/orders/ORD-1/cancel", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route"}, rec.Header().Values("X-Chain"))

	url, err := r.URL("admin.cancel", map[string]string{"id": "ORD-9"})
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/orders/ORD-9/cancel", url)

	_, err = r.URL("admin.cancel", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)

	assert.Equal(t, []Route{
		{Method: http.MethodPost, Path: "/api/admin/orders/{id}/cancel", Name: "admin.cancel"},
		{Method: http.MethodGet, Path: "/health"},
	}, r.Routes())
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath())
	assert.Equal(t, "/", joinPath("/", ""))
	assert.Equal(t, "/a/b/c", joinPath("/a/", "b", "/c/"))
}

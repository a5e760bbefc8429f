package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/app/routes"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/app/store/flatfile"
	"github.com/shashiranjanraj/pizzapos/pkg/auth"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
	"github.com/shashiranjanraj/pizzapos/pkg/router"
	"github.com/shashiranjanraj/pizzapos/pkg/storage"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type orderBody struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	AssignedDriver string `json:"assigned_driver"`
	Display        struct {
		Total float64 `json:"total"`
	} `json:"display_totals"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	root := t.TempDir()
	s, err := flatfile.Open(filepath.Join(root, "data"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = store.SeedDefaultUsers(s)
	require.NoError(t, err)

	disk, err := storage.NewLocal(storage.LocalConfig{Root: filepath.Join(root, "disk")})
	require.NoError(t, err)

	bus := event.New()
	iss := auth.NewIssuer("route-secret", time.Hour)
	cart := services.NewCartService(catalog.Default())
	set := &services.Set{
		Cart:    cart,
		Orders:  services.NewOrderService(s, cart, bus),
		Admin:   services.NewAdminService(s, disk, bus),
		Drivers: services.NewDriverService(s, bus),
		Auth:    services.NewAuthService(s, iss),
		Backup:  services.NewBackupService(s, disk),
	}

	r := router.New()
	routes.RegisterAPI(r, set, iss)
	return r.Handler()
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	code, env := call(t, h, "POST", "/api/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, code, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decodeOrder(t *testing.T, env envelope) orderBody {
	t.Helper()
	var o orderBody
	require.NoError(t, json.Unmarshal(env.Data, &o))
	return o
}

var deliveryOrder = map[string]any{
	"order_type":       "delivery",
	"delivery_address": "12 Sewer Lane",
	"payment_method":   "Visa",
	"pizzas": []map[string]any{
		{"pizza_id": "cowabunga-classic", "size": "medium", "toppings": []string{"pepperoni"}},
	},
}

func TestPublicRoutes(t *testing.T) {
	h := newServer(t)

	code, _ := call(t, h, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := call(t, h, "GET", "/api/menu", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "cowabunga-classic")
}

func TestRoleGates(t *testing.T) {
	h := newServer(t)
	customer := login(t, h, "customer", "password123")
	driver := login(t, h, "driver", "driver123")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", "GET", "/api/orders", "", http.StatusUnauthorized},
		{"bad token", "GET", "/api/orders", "nope", http.StatusUnauthorized},
		{"customer on admin", "GET", "/api/admin/orders", customer, http.StatusForbidden},
		{"customer on driver", "GET", "/api/driver/available", customer, http.StatusForbidden},
		{"driver on customer", "GET", "/api/orders", driver, http.StatusForbidden},
		{"customer on own", "GET", "/api/orders", customer, http.StatusOK},
		{"driver on own", "GET", "/api/driver/available", driver, http.StatusOK},
		{"any role on me", "GET", "/api/me", driver, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := call(t, h, tc.method, tc.path, tc.token, nil)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newServer(t)
	code, _ := call(t, h, "POST", "/api/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSignupCreatesCustomer(t *testing.T) {
	h := newServer(t)
	body := map[string]string{"username": "april", "password": "channel6"}

	code, env := call(t, h, "POST", "/api/signup", "", body)
	require.Equal(t, http.StatusCreated, code)
	assert.JSONEq(t, `{"username":"april","role":"customer"}`, string(env.Data))

	code, _ = call(t, h, "POST", "/api/signup", "", body)
	assert.Equal(t, http.StatusConflict, code)

	// a role in the body is not accepted
	code, _ = call(t, h, "POST", "/api/signup", "", map[string]string{"username": "shredder", "password": "foot-clan", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)

	token := login(t, h, "april", "channel6")
	code, _ = call(t, h, "GET", "/api/orders", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestPlaceOrderValidation(t *testing.T) {
	h := newServer(t)
	customer := login(t, h, "customer", "password123")

	code, env := call(t, h, "POST", "/api/orders", customer, map[string]any{"order_type": "drone"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "order_type")
	assert.NotContains(t, env.Errors, "customer", "customer comes from the token")

	code, env = call(t, h, "POST", "/api/orders", customer, map[string]any{"order_type": "delivery", "pizzas": []map[string]any{{"pizza_id": "cowabunga-classic", "size": "medium"}}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "delivery_address")

	body := map[string]any{"customer": "someone-else", "order_type": "pickup"}
	code, _ = call(t, h, "POST", "/api/orders", customer, body)
	assert.Equal(t, http.StatusBadRequest, code, "customer cannot be set in the body")
}

func TestDeliveryFlow(t *testing.T) {
	h := newServer(t)
	customer := login(t, h, "customer", "password123")
	admin := login(t, h, "admin", "admin123")
	driver := login(t, h, "driver", "driver123")

	code, env := call(t, h, "POST", "/api/orders/quote", customer, deliveryOrder)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 15.65, decodeOrder(t, env).Display.Total)

	code, env = call(t, h, "POST", "/api/orders", customer, deliveryOrder)
	require.Equal(t, http.StatusCreated, code, env.Message)
	placed := decodeOrder(t, env)
	assert.Equal(t, "pending", placed.Status)
	id := placed.ID

	code, _ = call(t, h, "POST", "/api/driver/orders/"+id+"/claim", driver, nil)
	assert.Equal(t, http.StatusConflict, code, "pending order cannot be claimed")

	for _, step := range []string{"start", "ready"} {
		code, env = call(t, h, "POST", "/api/admin/orders/"+id+"/"+step, admin, nil)
		require.Equal(t, http.StatusOK, code, env.Message)
	}
	assert.Equal(t, "ready", decodeOrder(t, env).Status)

	code, env = call(t, h, "POST", "/api/driver/orders/"+id+"/claim", driver, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	claimed := decodeOrder(t, env)
	assert.Equal(t, "out-for-delivery", claimed.Status)
	assert.Equal(t, "driver", claimed.AssignedDriver)

	code, _ = call(t, h, "POST", "/api/driver/orders/"+id+"/tip", driver, map[string]float64{"amount": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, code, "tip before delivery")

	code, env = call(t, h, "POST", "/api/driver/orders/"+id+"/complete", driver, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "delivered", decodeOrder(t, env).Status)

	code, _ = call(t, h, "POST", "/api/driver/orders/"+id+"/tip", driver, map[string]float64{"amount": 3})
	assert.Equal(t, http.StatusCreated, code)

	code, env = call(t, h, "GET", "/api/driver/tips", driver, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total":3`)

	code, env = call(t, h, "GET", "/api/orders/"+id+"/events", customer, nil)
	require.Equal(t, http.StatusOK, code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &events))
	assert.Len(t, events, 5)

	code, _ = call(t, h, "POST", "/api/admin/orders/"+id+"/cancel", admin, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestCustomerCannotSeeOthersOrders(t *testing.T) {
	h := newServer(t)
	customer := login(t, h, "customer", "password123")

	code, _ := call(t, h, "POST", "/api/signup", "", map[string]string{"username": "casey", "password": "hockey1"})
	require.Equal(t, http.StatusCreated, code)
	other := login(t, h, "casey", "hockey1")

	code, env := call(t, h, "POST", "/api/orders", customer, deliveryOrder)
	require.Equal(t, http.StatusCreated, code)
	id := decodeOrder(t, env).ID

	code, _ = call(t, h, "GET", "/api/orders/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, h, "POST", "/api/orders/"+id+"/cancel", other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = call(t, h, "POST", "/api/orders/"+id+"/cancel", customer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", decodeOrder(t, env).Status)
}

func TestAdminReportsAndReset(t *testing.T) {
	h := newServer(t)
	customer := login(t, h, "customer", "password123")
	admin := login(t, h, "admin", "admin123")

	code, _ := call(t, h, "POST", "/api/orders", customer, deliveryOrder)
	require.Equal(t, http.StatusCreated, code)

	code, env := call(t, h, "GET", "/api/admin/reports/daily", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var daily struct {
		OrderCount int     `json:"order_count"`
		Sales      float64 `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &daily))
	assert.Equal(t, 1, daily.OrderCount)
	assert.Equal(t, 15.65, daily.Sales)

	code, _ = call(t, h, "GET", "/api/admin/reports/daily?date=yesterday", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, h, "POST", "/api/admin/reset-sales", admin, map[string]bool{"confirm": false})
	assert.Equal(t, http.StatusPreconditionRequired, code)

	code, env = call(t, h, "POST", "/api/admin/reset-sales", admin, map[string]bool{"confirm": true})
	require.Equal(t, http.StatusOK, code, env.Message)
	var reset struct {
		Removed []orderBody `json:"removed"`
		Archive string      `json:"archive"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reset))
	assert.Len(t, reset.Removed, 1)
	assert.NotEmpty(t, reset.Archive)

	code, env = call(t, h, "GET", "/api/admin/orders?status=all", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var left []orderBody
	require.NoError(t, json.Unmarshal(env.Data, &left))
	assert.Empty(t, left)

	code, env = call(t, h, "GET", "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "password")

	code, _ = call(t, h, "POST", "/api/admin/backup", admin, nil)
	assert.Equal(t, http.StatusCreated, code)
}

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousIsAskedToLogIn(t *testing.T) {
	app, _ := newApp(t, false)
	cl := newClient(t, app)
	for _, path := range []string{"/customer_orders", "/order_history", "/inventory", "/supplier_monitor", "/courier_shipments"} {
		status, body := cl.json(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, "Please log in to continue.", body["error"], path)
	}
}

func TestRolesAreConfinedToTheirPages(t *testing.T) {
	app, _ := newApp(t, false)
	cases := []struct {
		user   string
		method string
		path   string
		want   int
	}{
		{customer, http.MethodGet, "/customer_orders", http.StatusOK},
		{customer, http.MethodGet, "/inventory", http.StatusForbidden},
		{customer, http.MethodPost, "/update_status/1", http.StatusForbidden},
		{manager, http.MethodGet, "/inventory", http.StatusOK},
		{manager, http.MethodGet, "/supplier_monitor", http.StatusForbidden},
		{manager, http.MethodPost, "/add_to_cart", http.StatusForbidden},
		{supplier, http.MethodGet, "/supplier_monitor", http.StatusOK},
		{supplier, http.MethodGet, "/inventory", http.StatusOK},
		{supplier, http.MethodPost, "/inventory/delete/1", http.StatusForbidden},
		{courier, http.MethodGet, "/courier_shipments", http.StatusOK},
		{courier, http.MethodPost, "/place_order", http.StatusForbidden},
		{courier, http.MethodGet, "/order_history", http.StatusForbidden},
	}
	for _, tc := range cases {
		cl := newClient(t, app)
		cl.login(tc.user)
		status, _ := cl.json(tc.method, tc.path, nil)
		assert.Equal(t, tc.want, status, "%s %s %s", tc.user, tc.method, tc.path)
	}
}

func TestAccessDeniedIsLogged(t *testing.T) {
	app, db := newApp(t, false)
	logs := captureLogs(t)
	cl := newClient(t, app)
	cl.login(customer)

	status, body := cl.json(http.MethodPost, "/inventory/delete/1", nil)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied", body["error"])
	assert.Equal(t, 40, stockQty(t, db, riceID))

	denied := logs.find("access.denied")
	require.Len(t, denied, 1)
	assert.Equal(t, "warn", denied[0].Level)
	assert.Equal(t, "Customer", denied[0].Role)
	assert.NotEmpty(t, denied[0].UserID)
	assert.Equal(t, "/inventory/delete/1", denied[0].Path)
	assert.Equal(t, "manage_stock", denied[0].Fields["op"])
}

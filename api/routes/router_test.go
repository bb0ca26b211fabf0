package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/migapan/storefront-backend/pkg/config"
	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/dbtest"
	"github.com/migapan/storefront-backend/pkg/logger"
)

const guestSession = "guest-session-0001"

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "test"},
		JWT:  config.JWTConfig{Secret: "router-secret", Issuer: "bakery-api", ExpirationMinutes: 60},
		Shop: config.ShopConfig{ShippingFee: "5000", OrderNumberAttempts: 3},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5500"}},
	}
}

type testServer struct {
	handler  http.Handler
	registry *prometheus.Registry
	product  uint64
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	conn := dbtest.Open(t)
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	client := db.NewFromConn(conn)

	svc, err := NewServices(ServicesParams{
		Config:     cfg,
		Logger:     logger.Nop(),
		DB:         conn,
		TxRunner:   client,
		Registerer: registry,
	})
	if err != nil {
		t.Fatalf("build services: %v", err)
	}

	category := dbtest.SeedCategory(t, conn, "Panes", "panes", 1)
	product := dbtest.SeedProduct(t, conn, "Pan de Masa Madre", "pan-masa-madre", 9500, dbtest.ProductOpts{CategoryID: &category.ID, Featured: true})

	return testServer{
		handler:  NewRouter(cfg, logger.Nop(), client, nil, registry, svc),
		registry: registry,
		product:  product.ID,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func (s testServer) do(t *testing.T, method, path, body string, headers map[string]string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body: %v", method, path, err)
		}
	}
	return rec.Code, env
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHealthAndCatalogArePublic(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"database":"connected"`)) {
		t.Fatalf("unexpected health body %s", rec.Body.String())
	}

	code, env := srv.do(t, http.MethodGet, "/api/productos?destacados=true", "", nil)
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("expected one featured product got %d %+v", code, env)
	}

	code, _ = srv.do(t, http.MethodGet, "/api/productos/slug/pan-masa-madre", "", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200 by slug got %d", code)
	}

	code, env = srv.do(t, http.MethodGet, "/api/productos?activo=maybe", "", nil)
	if code != http.StatusBadRequest || env.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error got %d %s", code, env.Code)
	}

	code, env = srv.do(t, http.MethodGet, "/api/categorias", "", nil)
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("expected one category got %d %+v", code, env)
	}
}

func TestProtectedGroupsRejectMissingCredentials(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/pedidos", "/api/usuarios/profile", "/api/usuarios/favoritos", "/api/carrito"} {
		code, env := srv.do(t, http.MethodGet, path, "", nil)
		if code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s got %d", path, code)
		}
		if env.Code != "UNAUTHORIZED" {
			t.Fatalf("expected UNAUTHORIZED code for %s got %q", path, env.Code)
		}
	}

	code, _ := srv.do(t, http.MethodGet, "/api/pedidos", "", bearer("not-a-token"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token got %d", code)
	}
}

func TestGuestCartToOrderFlow(t *testing.T) {
	srv := newTestServer(t)
	guest := map[string]string{"X-Session-ID": guestSession}

	addBody := `{"product_id":` + jsonNumber(srv.product) + `,"quantity":2}`
	code, _ := srv.do(t, http.MethodPost, "/api/carrito", addBody, guest)
	if code != http.StatusOK {
		t.Fatalf("expected 200 adding to guest cart got %d", code)
	}

	code, env := srv.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Ana Pérez","email":"ana@example.com","password":"secreto1"}`, guest)
	if code != http.StatusCreated {
		t.Fatalf("expected 201 from register got %d (%s)", code, env.Error)
	}
	var auth struct {
		Token string `json:"token"`
	}
	mustDecode(t, env.Data, &auth)
	if auth.Token == "" {
		t.Fatal("expected token")
	}

	code, env = srv.do(t, http.MethodGet, "/api/carrito", "", bearer(auth.Token))
	if code != http.StatusOK {
		t.Fatalf("expected 200 from cart got %d", code)
	}
	var cart struct {
		ItemCount int    `json:"item_count"`
		Total     string `json:"total"`
	}
	mustDecode(t, env.Data, &cart)
	if cart.ItemCount != 2 || cart.Total != "19000" {
		t.Fatalf("expected adopted guest cart got %+v", cart)
	}

	code, env = srv.do(t, http.MethodPost, "/api/pedidos",
		`{"delivery_method":"domicilio","payment_method":"efectivo","delivery_address":"Calle 10 # 4-21"}`, bearer(auth.Token))
	if code != http.StatusCreated {
		t.Fatalf("expected 201 from order got %d (%s)", code, env.Error)
	}
	var order struct {
		OrderNumber  string `json:"order_number"`
		Subtotal     string `json:"subtotal"`
		ShippingCost string `json:"shipping_cost"`
		Total        string `json:"total"`
	}
	mustDecode(t, env.Data, &order)
	if order.Subtotal != "19000" || order.ShippingCost != "5000" || order.Total != "24000" {
		t.Fatalf("unexpected totals %+v", order)
	}
	if !strings.HasPrefix(order.OrderNumber, "PED-") {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}

	code, env = srv.do(t, http.MethodGet, "/api/carrito", "", bearer(auth.Token))
	mustDecode(t, env.Data, &cart)
	if code != http.StatusOK || cart.ItemCount != 0 {
		t.Fatalf("expected empty cart after order got %d %+v", code, cart)
	}

	code, env = srv.do(t, http.MethodGet, "/api/pedidos", "", bearer(auth.Token))
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("expected one order got %d %+v", code, env)
	}

	code, _ = srv.do(t, http.MethodPost, "/api/auth/logout", "", bearer(auth.Token))
	if code != http.StatusOK {
		t.Fatalf("expected 200 from logout got %d", code)
	}
	code, _ = srv.do(t, http.MethodGet, "/api/auth/verify", "", bearer(auth.Token))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected revoked token to fail verify got %d", code)
	}
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/api/productos", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bakery_http_") {
		t.Fatalf("expected http metrics in exposition")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/carrito", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Session-ID")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5500" {
		t.Fatalf("expected allowed origin header got %q", got)
	}
}

func jsonNumber(v uint64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func mustDecode(t *testing.T, raw json.RawMessage, dest any) {
	t.Helper()
	if err := json.Unmarshal(raw, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migapan/storefront-backend/api/middleware"
	ordersvc "github.com/migapan/storefront-backend/internal/orders"
	"github.com/migapan/storefront-backend/pkg/enums"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
	"github.com/migapan/storefront-backend/pkg/pagination"
)

type stubOrderService struct {
	actor   ordersvc.Actor
	placed  *ordersvc.PlaceOrderRequest
	params  pagination.Params
	getUser uint64
}

func (s *stubOrderService) Place(_ context.Context, actor ordersvc.Actor, req ordersvc.PlaceOrderRequest) (*ordersvc.OrderDTO, error) {
	s.actor = actor
	s.placed = &req
	return &ordersvc.OrderDTO{
		ID:             10,
		OrderNumber:    "PED-1700000000000-ABC123",
		Status:         enums.OrderStatusPending,
		DeliveryMethod: enums.DeliveryMethod(req.DeliveryMethod),
		Total:          decimal.NewFromInt(24000),
	}, nil
}

func (s *stubOrderService) List(_ context.Context, userID uint64, params pagination.Params) (*ordersvc.ListResult, error) {
	s.params = params
	return &ordersvc.ListResult{Orders: []ordersvc.OrderDTO{{ID: 2}, {ID: 1}}, NextCursor: "next"}, nil
}

func (s *stubOrderService) Get(_ context.Context, userID, orderID uint64) (*ordersvc.OrderDTO, error) {
	s.getUser = userID
	if orderID != 10 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return &ordersvc.OrderDTO{ID: 10}, nil
}

func authedRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, 7)
	return req.WithContext(ctx)
}

func TestPlaceReturnsCreated(t *testing.T) {
	svc := &stubOrderService{}
	body := `{"items":[{"product_id":1,"quantity":2}],"delivery_method":"domicilio","payment_method":"efectivo","delivery_address":"Calle 1"}`
	rec := httptest.NewRecorder()

	Place(svc, nil).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/pedidos", body, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(7), svc.actor.UserID)
	require.NotNil(t, svc.placed)
	require.Len(t, svc.placed.Items, 1)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderNumber string `json:"order_number"`
			Total       string `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "24000", resp.Data.Total)
	assert.Equal(t, "PED-1700000000000-ABC123", resp.Data.OrderNumber)
}

func TestPlaceRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	Place(&stubOrderService{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceRejectsUnknownFields(t *testing.T) {
	svc := &stubOrderService{}
	rec := httptest.NewRecorder()

	Place(svc, nil).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/pedidos", `{"delivery_method":"recogida","payment_method":"efectivo","user_id":99}`, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.placed)
}

func TestListPassesPagination(t *testing.T) {
	svc := &stubOrderService{}
	rec := httptest.NewRecorder()

	List(svc, nil).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/pedidos?limit=2&cursor=abc", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.params.Limit)
	assert.Equal(t, "abc", svc.params.Cursor)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(2), resp["count"])
}

func TestListRejectsBadLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	List(&stubOrderService{}, nil).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/pedidos?limit=500", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetScopesToUser(t *testing.T) {
	svc := &stubOrderService{}

	rec := httptest.NewRecorder()
	Get(svc, nil).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/pedidos/10", "", map[string]string{"orderId": "10"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), svc.getUser)

	rec = httptest.NewRecorder()
	Get(svc, nil).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/pedidos/11", "", map[string]string{"orderId": "11"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package cart

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
	cartsvc "github.com/migapan/storefront-backend/internal/cart"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

type stubCartService struct {
	owner      cartsvc.Owner
	added      *cartsvc.AddItemRequest
	updatedID  uint64
	updatedQty int
	removedID  uint64
	cleared    bool
}

func (s *stubCartService) Get(_ context.Context, owner cartsvc.Owner) (*cartsvc.CartDTO, error) {
	s.owner = owner
	return cartsvc.Empty(), nil
}

func (s *stubCartService) AddItem(_ context.Context, owner cartsvc.Owner, req cartsvc.AddItemRequest) (*cartsvc.CartDTO, error) {
	s.owner = owner
	s.added = &req
	if req.ProductID == 404 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	price := decimal.NewFromInt(9500)
	return &cartsvc.CartDTO{
		ID:        1,
		Items:     []cartsvc.CartItemDTO{{ID: 3, ProductID: req.ProductID, Quantity: req.Quantity, UnitPrice: price, Subtotal: price.Mul(decimal.NewFromInt(int64(req.Quantity)))}},
		Total:     price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		ItemCount: req.Quantity,
	}, nil
}

func (s *stubCartService) UpdateItem(_ context.Context, owner cartsvc.Owner, itemID uint64, req cartsvc.UpdateItemRequest) (*cartsvc.CartDTO, error) {
	s.owner = owner
	s.updatedID = itemID
	s.updatedQty = *req.Quantity
	return cartsvc.Empty(), nil
}

func (s *stubCartService) RemoveItem(_ context.Context, owner cartsvc.Owner, itemID uint64) (*cartsvc.CartDTO, error) {
	s.owner = owner
	s.removedID = itemID
	return cartsvc.Empty(), nil
}

func (s *stubCartService) Clear(_ context.Context, owner cartsvc.Owner) error {
	s.owner = owner
	s.cleared = true
	return nil
}

func (s *stubCartService) MergeGuestInto(context.Context, string, uint64) error {
	return nil
}

func guestRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithCartOwner(ctx, cartsvc.ForGuest("guest-session-1"))
	return req.WithContext(ctx)
}

func TestCartFetchRequiresOwner(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/carrito", nil)
	rec := httptest.NewRecorder()

	CartFetch(&stubCartService{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartFetchEmpty(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(rec, guestRequest(http.MethodGet, "/api/carrito", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "guest-session-1", svc.owner.SessionID)
	var body struct {
		Data struct {
			Items     []any  `json:"items"`
			Total     string `json:"total"`
			ItemCount int    `json:"item_count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Empty(t, body.Data.Items)
	assert.Equal(t, "0", body.Data.Total)
}

func TestCartAddItem(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()

	CartAddItem(svc, nil).ServeHTTP(rec, guestRequest(http.MethodPost, "/api/carrito", `{"product_id":5,"quantity":2}`, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.added)
	assert.Equal(t, uint64(5), svc.added.ProductID)
	var body struct {
		Data struct {
			Total string `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "19000", body.Data.Total)
}

func TestCartAddItemValidationAndNotFound(t *testing.T) {
	svc := &stubCartService{}

	rec := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(rec, guestRequest(http.MethodPost, "/api/carrito", `{"product_id":5,"quantity":0}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.added)

	rec = httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(rec, guestRequest(http.MethodPost, "/api/carrito", `{"product_id":404,"quantity":1}`, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartUpdateRemoveClear(t *testing.T) {
	svc := &stubCartService{}

	rec := httptest.NewRecorder()
	CartUpdateItem(svc, nil).ServeHTTP(rec, guestRequest(http.MethodPut, "/api/carrito/items/3", `{"quantity":0}`, map[string]string{"itemId": "3"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(3), svc.updatedID)
	assert.Equal(t, 0, svc.updatedQty)

	rec = httptest.NewRecorder()
	CartRemoveItem(svc, nil).ServeHTTP(rec, guestRequest(http.MethodDelete, "/api/carrito/items/4", "", map[string]string{"itemId": "4"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(4), svc.removedID)

	rec = httptest.NewRecorder()
	CartRemoveItem(svc, nil).ServeHTTP(rec, guestRequest(http.MethodDelete, "/api/carrito/items/abc", "", map[string]string{"itemId": "abc"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(rec, guestRequest(http.MethodDelete, "/api/carrito", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.cleared)
}

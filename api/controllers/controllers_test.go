package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migapan/storefront-backend/api/middleware"
	"github.com/migapan/storefront-backend/internal/categories"
	"github.com/migapan/storefront-backend/internal/favorites"
	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/internal/users"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

type stubProductService struct {
	filters products.ListFilters
}

func (s *stubProductService) List(_ context.Context, f products.ListFilters) ([]products.ProductDTO, error) {
	s.filters = f
	return []products.ProductDTO{{ID: 1, Name: "Croissant", Price: decimal.NewFromInt(4500)}}, nil
}

func (s *stubProductService) GetByID(_ context.Context, id uint64) (*products.ProductDTO, error) {
	if id != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &products.ProductDTO{ID: 1, Slug: "croissant"}, nil
}

func (s *stubProductService) GetBySlug(_ context.Context, slug string) (*products.ProductDTO, error) {
	if slug != "croissant" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &products.ProductDTO{ID: 1, Slug: slug}, nil
}

type stubCategoryService struct{}

func (stubCategoryService) List(context.Context) ([]categories.CategoryDTO, error) {
	return []categories.CategoryDTO{{ID: 1, Name: "Panes", ProductCount: 3}, {ID: 2, Name: "Tortas"}}, nil
}

func (stubCategoryService) Get(_ context.Context, id uint64) (*categories.CategoryDTO, error) {
	if id != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return &categories.CategoryDTO{ID: 1, Name: "Panes"}, nil
}

func (stubCategoryService) ListProducts(_ context.Context, id uint64) ([]products.ProductDTO, error) {
	return []products.ProductDTO{{ID: 4}}, nil
}

type stubUserService struct {
	updated *users.UpdateProfileRequest
}

func (s *stubUserService) GetProfile(_ context.Context, userID uint64) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID, Email: "ana@example.com"}, nil
}

func (s *stubUserService) UpdateProfile(_ context.Context, userID uint64, req users.UpdateProfileRequest) (*users.UserDTO, error) {
	s.updated = &req
	return &users.UserDTO{ID: userID, Name: *req.Name}, nil
}

type stubFavoriteService struct {
	added   []uint64
	removed []uint64
}

func (s *stubFavoriteService) List(context.Context, uint64) ([]favorites.FavoriteDTO, error) {
	return []favorites.FavoriteDTO{}, nil
}

func (s *stubFavoriteService) Add(_ context.Context, _ uint64, productID uint64) error {
	s.added = append(s.added, productID)
	return nil
}

func (s *stubFavoriteService) Remove(_ context.Context, _ uint64, productID uint64) error {
	s.removed = append(s.removed, productID)
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func withParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withUser(req *http.Request, userID uint64) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestProductListParsesFilters(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/productos?categoria=panes&busqueda=Mantequilla&destacados=true", nil)
	rec := httptest.NewRecorder()

	ProductList(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "panes", svc.filters.CategorySlug)
	assert.True(t, svc.filters.FeaturedOnly)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	item := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "4500", item["price"])
}

func TestProductDetailAndSlug(t *testing.T) {
	svc := &stubProductService{}

	rec := httptest.NewRecorder()
	ProductDetail(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/api/productos/1", nil), map[string]string{"productId": "1"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	ProductDetail(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/api/productos/2", nil), map[string]string{"productId": "2"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	ProductDetail(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/api/productos/x", nil), map[string]string{"productId": "x"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	ProductBySlug(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/api/productos/slug/croissant", nil), map[string]string{"slug": "croissant"}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategoryHandlers(t *testing.T) {
	svc := stubCategoryService{}

	rec := httptest.NewRecorder()
	CategoryList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categorias", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(3), first["product_count"])

	rec = httptest.NewRecorder()
	CategoryDetail(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/api/categorias/9", nil), map[string]string{"categoryId": "9"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	CategoryProducts(svc, nil).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodGet, "/api/categorias/1/productos", nil), map[string]string{"categoryId": "1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])
}

func TestProfileHandlers(t *testing.T) {
	svc := &stubUserService{}

	rec := httptest.NewRecorder()
	ProfileGet(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/usuarios/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	ProfileGet(svc, nil).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/usuarios/profile", nil), 7))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/usuarios/profile", strings.NewReader(`{"name":"Ana María"}`)), 7)
	ProfileUpdate(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated)
	assert.Equal(t, "Ana María", *svc.updated.Name)

	rec = httptest.NewRecorder()
	req = withUser(httptest.NewRequest(http.MethodPut, "/api/usuarios/profile", strings.NewReader(`{"email":"x@example.com"}`)), 7)
	ProfileUpdate(svc, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavoriteHandlers(t *testing.T) {
	svc := &stubFavoriteService{}

	rec := httptest.NewRecorder()
	FavoriteAdd(svc, nil).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPost, "/api/usuarios/favoritos", strings.NewReader(`{"product_id":5}`)), 7))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []uint64{5}, svc.added)

	rec = httptest.NewRecorder()
	req := withUser(withParams(httptest.NewRequest(http.MethodDelete, "/api/usuarios/favoritos/5", nil), map[string]string{"productId": "5"}), 7)
	FavoriteRemove(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{5}, svc.removed)

	rec = httptest.NewRecorder()
	FavoriteList(svc, nil).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/usuarios/favoritos", nil), 7))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["count"])
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(nil, stubPinger{}, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
	_, hasRedis := body["redis"]
	assert.False(t, hasRedis)

	rec = httptest.NewRecorder()
	HealthCheck(nil, stubPinger{err: errors.New("down")}, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "disconnected", body["database"])

	rec = httptest.NewRecorder()
	HealthCheck(nil, stubPinger{}, stubPinger{err: errors.New("down")}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "disconnected", decode(t, rec)["redis"])
}

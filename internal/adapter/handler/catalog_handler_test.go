package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

type fakeCatalogRepo struct {
	products map[int]domain.Product
	stock    map[int]domain.StockRow
}

func (f *fakeCatalogRepo) GetProduct(ctx context.Context, productID int) (*domain.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return []domain.Product{f.products[1]}, nil
}

func (f *fakeCatalogRepo) GetStock(ctx context.Context, productID int) (*domain.StockRow, error) {
	row, ok := f.stock[productID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeCatalogRepo) UpdateStock(ctx context.Context, row domain.StockRow) error {
	row.Version++
	f.stock[row.ProductID] = row
	return nil
}

type fakeStockCache map[int]int

func (f fakeStockCache) GetStock(ctx context.Context, productID int) (int, bool, error) {
	amount, ok := f[productID]
	return amount, ok, nil
}

func (f fakeStockCache) SetStock(ctx context.Context, productID int, amount int) error {
	f[productID] = amount
	return nil
}

func newCatalogRouter() (*mux.Router, fakeStockCache) {
	repo := &fakeCatalogRepo{
		products: map[int]domain.Product{1: {ID: 1, Title: "A", Price: 10, Image: "https://example.com/a.jpg"}},
		stock:    map[int]domain.StockRow{1: {Stock: domain.Stock{ProductID: 1, Amount: 3}}},
	}
	cache := fakeStockCache{}
	svc := service.NewCatalogService(repo, cache, testLogger())

	router := mux.NewRouter()
	NewCatalogHTTPHandler(svc, testLogger()).Register(router)
	return router, cache
}

func serve(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCatalogHTTP_GetStock(t *testing.T) {
	router, _ := newCatalogRouter()

	rec := serve(router, http.MethodGet, "/stock/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"productId":1,"amount":3}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/stock/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHTTP_GetProduct(t *testing.T) {
	router, _ := newCatalogRouter()

	rec := serve(router, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"A","price":10,"image":"https://example.com/a.jpg"}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/products/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHTTP_ListProducts(t *testing.T) {
	router, _ := newCatalogRouter()

	rec := serve(router, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"title":"A","price":10,"image":"https://example.com/a.jpg"}]`, rec.Body.String())
}

func TestCatalogHTTP_SetStock(t *testing.T) {
	router, cache := newCatalogRouter()

	rec := serve(router, http.MethodPut, "/stock/1", `{"amount":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, cache[1])

	rec = serve(router, http.MethodGet, "/stock/1", "")
	assert.JSONEq(t, `{"productId":1,"amount":0}`, rec.Body.String())

	rec = serve(router, http.MethodPut, "/stock/1", `{"amount":-2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPut, "/stock/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPut, "/stock/7", `{"amount":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

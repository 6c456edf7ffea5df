package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

type CatalogHTTPHandler struct {
	catalogService *service.CatalogService
	log            *logrus.Entry
}

type SetStockHTTPRequest struct {
	Amount *int `json:"amount"`
}

type ErrorHTTPResponse struct {
	Message string `json:"message"`
}

func NewCatalogHTTPHandler(catalogService *service.CatalogService, log *logrus.Entry) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{catalogService: catalogService, log: log}
}

func (h *CatalogHTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{productId:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/stock/{productId:[0-9]+}", h.GetStock).Methods(http.MethodGet)
	r.HandleFunc("/stock/{productId:[0-9]+}", h.SetStock).Methods(http.MethodPut)
}

func (h *CatalogHTTPHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFromPath(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid product id"})
		return
	}

	stock, err := h.catalogService.GetStock(r.Context(), productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (h *CatalogHTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFromPath(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid product id"})
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *CatalogHTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHTTPHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFromPath(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid product id"})
		return
	}

	var req SetStockHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}

	if err := h.catalogService.SetStock(r.Context(), productID, *req.Amount); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Stock{ProductID: productID, Amount: *req.Amount})
}

func (h *CatalogHTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CatalogHTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
		message = "product not found"
	case errors.Is(err, service.ErrInvalidStock):
		status = http.StatusBadRequest
		message = "amount must not be negative"
	case errors.Is(err, domain.ErrStockConflict):
		status = http.StatusConflict
		message = "stock updated concurrently"
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("catalog request failed")
	}

	writeJSON(w, status, ErrorHTTPResponse{Message: message})
}

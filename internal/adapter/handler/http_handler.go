package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/notify"
	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
	"github.com/rl1809/rocketshoes-cart/internal/port"
)

type HTTPHandler struct {
	cartService *service.CartService
	notifier    port.Notifier
	log         *logrus.Entry
}

type AddProductHTTPRequest struct {
	ProductID int `json:"productId"`
}

type UpdateAmountHTTPRequest struct {
	Amount int `json:"amount"`
}

type CartHTTPResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Cart    domain.Cart `json:"cart"`
	Total   float64     `json:"total"`
}

func NewHTTPHandler(cartService *service.CartService, notifier port.Notifier, log *logrus.Entry) *HTTPHandler {
	return &HTTPHandler{cartService: cartService, notifier: notifier, log: log}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/items", h.AddProduct).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{productId:[0-9]+}", h.UpdateProductAmount).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{productId:[0-9]+}", h.RemoveProduct).Methods(http.MethodDelete)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, http.StatusOK, "")
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeCart(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		h.writeCart(w, http.StatusBadRequest, "missing required fields")
		return
	}

	err := h.cartService.AddProduct(r.Context(), req.ProductID)
	h.respond(w, r, notify.OpAdd, req.ProductID, err)
}

func (h *HTTPHandler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFromPath(r)
	if !ok {
		h.writeCart(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateAmountHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeCart(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.cartService.UpdateProductAmount(r.Context(), service.UpdateProductAmount{
		ProductID: productID,
		Amount:    req.Amount,
	})
	h.respond(w, r, notify.OpUpdate, productID, err)
}

func (h *HTTPHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFromPath(r)
	if !ok {
		h.writeCart(w, http.StatusBadRequest, "invalid product id")
		return
	}

	err := h.cartService.RemoveProduct(r.Context(), productID)
	h.respond(w, r, notify.OpRemove, productID, err)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) respond(w http.ResponseWriter, r *http.Request, op notify.Operation, productID int, err error) {
	if err == nil {
		h.writeCart(w, http.StatusOK, "")
		return
	}

	outcome := service.Classify(err)
	message := notify.MessageFor(op, err)
	h.notifier.Notify(r.Context(), message)

	h.log.WithFields(logrus.Fields{
		"request_id": w.Header().Get(RequestIDHeader),
		"operation":  op,
		"product_id": productID,
		"outcome":    outcome.String(),
	}).WithError(err).Info("cart mutation rejected")

	h.writeCart(w, statusFor(outcome), message)
}

func (h *HTTPHandler) writeCart(w http.ResponseWriter, status int, message string) {
	cart := h.cartService.Cart()
	writeJSON(w, status, CartHTTPResponse{
		Success: status == http.StatusOK,
		Message: message,
		Cart:    cart,
		Total:   cart.Total(),
	})
}

func statusFor(outcome service.Outcome) int {
	switch outcome {
	case service.OutcomeSuccess:
		return http.StatusOK
	case service.OutcomeOutOfStock:
		return http.StatusGone
	case service.OutcomeNotFound:
		return http.StatusNotFound
	case service.OutcomeTransportError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func productIDFromPath(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["productId"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

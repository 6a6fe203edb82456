package coupons

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// StoreHandler validates coupons for the storefront checkout flow.
type StoreHandler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewStoreHandler(repo *Repository, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		repo:   repo,
		logger: logger,
	}
}

type validateRequest struct {
	Code     string          `json:"code"`
	Cart     []string        `json:"cart"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type validateResponse struct {
	Coupon   *domain.Coupon  `json:"coupon"`
	Discount decimal.Decimal `json:"discount"`
}

func (h *StoreHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		h.writeError(w, http.StatusBadRequest, "missing coupon code")
		return
	}

	coupon, err := h.repo.GetByCode(r.Context(), req.Code)
	if err != nil {
		h.logger.Error("failed to look up coupon", "error", err, "code", req.Code)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := Validate(coupon, req.Cart, time.Now().UTC()); err != nil {
		h.logger.Info("coupon rejected", "code", req.Code, "reason", err)
		h.writeError(w, validationStatus(err), err.Error())
		return
	}

	discount := coupon.DiscountOn(req.Subtotal)
	h.logger.Info("coupon validated", "code", coupon.Code, "discount", discount)
	h.writeJSON(w, http.StatusOK, validateResponse{Coupon: coupon, Discount: discount})
}

func validationStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrExpired):
		return http.StatusGone
	default:
		return http.StatusUnprocessableEntity
	}
}

func (h *StoreHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *StoreHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

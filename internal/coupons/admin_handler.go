package coupons

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/audit"
	"github.com/joao-fontenele/mercadinho/internal/auth"
	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type AdminHandler struct {
	repo    *Repository
	auditor *audit.Recorder
	logger  *slog.Logger
}

func NewAdminHandler(repo *Repository, auditor *audit.Recorder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		repo:    repo,
		auditor: auditor,
		logger:  logger,
	}
}

func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.repo.ListWithUsage(r.Context())
	if err != nil {
		h.logger.Error("failed to list coupons", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, coupons)
}

func (h *AdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var coupon domain.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if coupon.Code == "" || !coupon.Value.IsPositive() {
		h.writeError(w, http.StatusBadRequest, "code and a positive value are required")
		return
	}
	if coupon.Type != domain.CouponFixed && coupon.Type != domain.CouponPercent {
		h.writeError(w, http.StatusBadRequest, "type must be fixed or percent")
		return
	}

	if err := h.repo.Create(r.Context(), &coupon); err != nil {
		h.logger.Error("failed to create coupon", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "create", "coupons", coupon.ID)
	h.logger.Info("coupon created", "coupon_id", coupon.ID, "code", coupon.Code)
	h.writeJSON(w, http.StatusCreated, coupon)
}

func (h *AdminHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var coupon domain.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	coupon.ID = r.PathValue("id")

	found, err := h.repo.Update(r.Context(), &coupon)
	if err != nil {
		h.logger.Error("failed to update coupon", "error", err, "coupon_id", coupon.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "coupon not found")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "update", "coupons", coupon.ID)
	h.writeJSON(w, http.StatusOK, coupon)
}

func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete coupon", "error", err, "coupon_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "coupon not found")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "delete", "coupons", id)
	h.logger.Info("coupon deleted", "coupon_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// HandleSetActive pauses or resumes a coupon without touching its other
// fields.
func (h *AdminHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	found, err := h.repo.SetActive(r.Context(), id, req.Active)
	if err != nil {
		h.logger.Error("failed to toggle coupon", "error", err, "coupon_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "coupon not found")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "update", "coupons", id)
	h.logger.Info("coupon toggled", "coupon_id", id, "active", req.Active)
	h.writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

type setExpiryRequest struct {
	EndDate *time.Time `json:"end_date"`
}

func (h *AdminHandler) HandleSetExpiry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setExpiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	found, err := h.repo.SetExpiry(r.Context(), id, req.EndDate)
	if err != nil {
		h.logger.Error("failed to set coupon expiry", "error", err, "coupon_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "coupon not found")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "update", "coupons", id)
	h.writeJSON(w, http.StatusOK, map[string]any{"end_date": req.EndDate})
}

func (h *AdminHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *AdminHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

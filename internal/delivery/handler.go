package delivery

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/mercadinho/internal/audit"
	"github.com/joao-fontenele/mercadinho/internal/auth"
	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// Handler serves the fee table. The list endpoint is shared by the
// storefront (to show the fee at checkout) and the back office; the
// write endpoints are admin-only.
type Handler struct {
	repo    *Repository
	auditor *audit.Recorder
	logger  *slog.Logger
}

func NewHandler(repo *Repository, auditor *audit.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		repo:    repo,
		auditor: auditor,
		logger:  logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	fees, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list delivery fees", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, fees)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var fee domain.DeliveryFee
	if err := json.NewDecoder(r.Body).Decode(&fee); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fee.Neighborhood == "" || fee.Fee.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "neighborhood required, fee must be non-negative")
		return
	}

	if err := h.repo.Create(r.Context(), &fee); err != nil {
		h.logger.Error("failed to create delivery fee", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "create", "delivery_fees", fee.ID)
	h.logger.Info("delivery fee created", "fee_id", fee.ID, "neighborhood", fee.Neighborhood)
	h.writeJSON(w, http.StatusCreated, fee)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var fee domain.DeliveryFee
	if err := json.NewDecoder(r.Body).Decode(&fee); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fee.ID = r.PathValue("id")
	if fee.Neighborhood == "" || fee.Fee.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "neighborhood required, fee must be non-negative")
		return
	}

	found, err := h.repo.Update(r.Context(), &fee)
	if err != nil {
		h.logger.Error("failed to update delivery fee", "error", err, "fee_id", fee.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "delivery fee not found")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "update", "delivery_fees", fee.ID)
	h.writeJSON(w, http.StatusOK, fee)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete delivery fee", "error", err, "fee_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "delivery fee not found")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "delete", "delivery_fees", id)
	h.logger.Info("delivery fee deleted", "fee_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

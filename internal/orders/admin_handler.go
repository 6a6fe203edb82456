package orders

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/audit"
	"github.com/joao-fontenele/mercadinho/internal/auth"
	"github.com/joao-fontenele/mercadinho/internal/domain"
)

const defaultPageSize = 20

// AdminHandler serves the back-office order list, status management and
// the CSV sales export.
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

type listResponse struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
}

// HandleList lists orders newest first. Query parameters: q searches
// customer, payment method, coupon and order id; payment filters by
// pix/cash/card, status by order status, page and page_size paginate
// (20 per page by default).
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := ListFilter{
		Query:    query.Get("q"),
		PageSize: defaultPageSize,
		Page:     1,
	}

	if payment := query.Get("payment"); payment != "" {
		kind := domain.PaymentKind(payment)
		if paymentPatterns(kind) == nil {
			h.writeError(w, http.StatusBadRequest, "invalid payment filter")
			return
		}
		filter.Payment = kind
	}
	if status := query.Get("status"); status != "" {
		if !domain.ValidStatus(domain.OrderStatus(status)) {
			h.writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = domain.OrderStatus(status)
	}
	if page := query.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		filter.Page = n
	}
	if size := query.Get("page_size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 || n > 100 {
			h.writeError(w, http.StatusBadRequest, "invalid page size")
			return
		}
		filter.PageSize = n
	}

	orders, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("orders listed", "count", len(orders), "total", total)
	h.writeJSON(w, http.StatusOK, listResponse{Orders: orders, Total: total, Page: filter.Page})
}

func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *AdminHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !domain.ValidStatus(req.Status) {
		h.writeError(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}

	order, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("failed to update order status", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.auditor.Record(r.Context(), auth.Username(r.Context()), "update_status", "orders", id)
	h.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

// HandleExportCSV streams every order as the sales spreadsheet.
func (h *AdminHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to export orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	filename := "vendas-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := WriteCSV(w, orders); err != nil {
		h.logger.Error("failed to write csv", "error", err)
		return
	}

	h.logger.Info("orders exported", "count", len(orders))
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

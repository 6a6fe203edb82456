package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/audit"
	"github.com/joao-fontenele/mercadinho/internal/auth"
	"github.com/joao-fontenele/mercadinho/internal/domain"
	"github.com/joao-fontenele/mercadinho/internal/messaging"
)

// AdminHandler exposes the back-office catalog CRUD. Every successful
// write is audited and announced on the catalog change topic so the
// storefront drops its snapshot.
type AdminHandler struct {
	repo     *Repository
	producer *messaging.Producer
	auditor  *audit.Recorder
	logger   *slog.Logger
}

func NewAdminHandler(repo *Repository, producer *messaging.Producer, auditor *audit.Recorder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		repo:     repo,
		producer: producer,
		auditor:  auditor,
		logger:   logger,
	}
}

func (h *AdminHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		needle := domain.Normalize(q)
		matched := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if strings.Contains(domain.Normalize(p.Name), needle) ||
				strings.Contains(domain.Normalize(p.Category), needle) {
				matched = append(matched, p)
			}
		}
		products = matched
	}

	h.writeJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("failed to get product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if product.Name == "" || product.Price.IsNegative() || product.StockQuantity < 0 {
		h.writeError(w, http.StatusBadRequest, "name required, price and stock must be non-negative")
		return
	}

	if err := h.repo.Create(r.Context(), &product); err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.recordChange(r.Context(), "create", "products", product.ID)
	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = r.PathValue("id")
	if product.Price.IsNegative() || product.StockQuantity < 0 {
		h.writeError(w, http.StatusBadRequest, "price and stock must be non-negative")
		return
	}

	found, err := h.repo.Update(r.Context(), &product)
	if err != nil {
		h.logger.Error("failed to update product", "error", err, "product_id", product.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.recordChange(r.Context(), "update", "products", product.ID)
	h.logger.Info("product updated", "product_id", product.ID)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.recordChange(r.Context(), "delete", "products", id)
	h.logger.Info("product deleted", "product_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *AdminHandler) HandleBulkDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		h.writeError(w, http.StatusBadRequest, "no product ids given")
		return
	}

	deleted, err := h.repo.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		h.logger.Error("failed to bulk delete products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	actor := auth.Username(r.Context())
	for _, id := range req.IDs {
		h.auditor.Record(r.Context(), actor, "delete", "products", id)
	}
	h.publishChange(r.Context(), "delete", "products", req.IDs)

	h.logger.Info("products bulk deleted", "requested", len(req.IDs), "deleted", deleted)
	h.writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (h *AdminHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, categories)
}

func (h *AdminHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if category.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := h.repo.CreateCategory(r.Context(), &category); err != nil {
		h.logger.Error("failed to create category", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.recordChange(r.Context(), "create", "categories", category.ID)
	h.logger.Info("category created", "category_id", category.ID, "name", category.Name)
	h.writeJSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	category.ID = r.PathValue("id")
	if category.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name required")
		return
	}

	found, err := h.repo.UpdateCategory(r.Context(), &category)
	if err != nil {
		h.logger.Error("failed to update category", "error", err, "category_id", category.ID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "category not found")
		return
	}

	h.recordChange(r.Context(), "update", "categories", category.ID)
	h.writeJSON(w, http.StatusOK, category)
}

func (h *AdminHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.repo.DeleteCategory(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete category", "error", err, "category_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "category not found")
		return
	}

	h.recordChange(r.Context(), "delete", "categories", id)
	h.logger.Info("category deleted", "category_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) recordChange(ctx context.Context, action, table, recordID string) {
	h.auditor.Record(ctx, auth.Username(ctx), action, table, recordID)
	h.publishChange(ctx, action, table, []string{recordID})
}

func (h *AdminHandler) publishChange(ctx context.Context, action, table string, recordIDs []string) {
	if h.producer == nil {
		return
	}

	event := domain.CatalogChangedEvent{
		Action:    action,
		Table:     table,
		RecordIDs: recordIDs,
		Timestamp: time.Now().UTC(),
	}
	if err := h.producer.Publish(ctx, table, event); err != nil {
		h.logger.Error("failed to publish catalog changed event", "error", err, "table", table)
	}
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

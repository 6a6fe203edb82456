package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/joao-fontenele/mercadinho/internal/domain"
	"github.com/joao-fontenele/mercadinho/internal/recommend"
	"github.com/joao-fontenele/mercadinho/internal/snapshot"
)

// Cache keys for the storefront snapshots.
const (
	cacheKeyCatalog    = "catalog:active"
	cacheKeyCategories = "catalog:categories"
)

// Source is the slice of the repository the storefront needs.
type Source interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// StoreHandler serves the customer-facing catalog. Reads go through the
// snapshot cache; a catalog change event invalidates it.
type StoreHandler struct {
	source Source
	cache  *snapshot.Cache
	scorer *recommend.Scorer
	logger *slog.Logger
}

func NewStoreHandler(source Source, cache *snapshot.Cache, scorer *recommend.Scorer, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		source: source,
		cache:  cache,
		scorer: scorer,
		logger: logger,
	}
}

func (h *StoreHandler) activeCatalog(ctx context.Context) ([]domain.Product, error) {
	if v, ok := h.cache.Get(cacheKeyCatalog); ok {
		cacheHits.Add(ctx, 1)
		return v.([]domain.Product), nil
	}
	cacheMisses.Add(ctx, 1)

	products, err := h.source.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	h.cache.Set(cacheKeyCatalog, products)
	return products, nil
}

// HandleListProducts lists the active catalog. Query parameters: cat
// filters by category name, q by a diacritics-insensitive name search,
// in_stock=1 drops sold-out products, sort is one of relevance,
// price_asc, price_desc or name_asc.
func (h *StoreHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.activeCatalog(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	query := r.URL.Query()
	cat := domain.Normalize(query.Get("cat"))
	q := domain.Normalize(query.Get("q"))
	inStockOnly := query.Get("in_stock") == "1"

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if cat != "" && domain.Normalize(p.Category) != cat {
			continue
		}
		if q != "" && !domain.ContainsAny(p.Name, []string{q}) {
			continue
		}
		if inStockOnly && !p.InStock() {
			continue
		}
		filtered = append(filtered, p)
	}

	switch query.Get("sort") {
	case "price_asc":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price.LessThan(filtered[j].Price)
		})
	case "price_desc":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[j].Price.LessThan(filtered[i].Price)
		})
	case "name_asc":
		sort.SliceStable(filtered, func(i, j int) bool {
			return domain.Normalize(filtered[i].Name) < domain.Normalize(filtered[j].Name)
		})
	case "relevance", "":
		// catalog order as loaded
	default:
		h.writeError(w, http.StatusBadRequest, "invalid sort")
		return
	}

	h.logger.Info("products listed", "count", len(filtered))
	h.writeJSON(w, http.StatusOK, filtered)
}

func (h *StoreHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	products, err := h.activeCatalog(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, p := range products {
		if p.ID == id {
			h.writeJSON(w, http.StatusOK, p)
			return
		}
	}

	h.writeError(w, http.StatusNotFound, "product not found")
}

func (h *StoreHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.cache.Get(cacheKeyCategories); ok {
		cacheHits.Add(r.Context(), 1)
		h.writeJSON(w, http.StatusOK, v)
		return
	}
	cacheMisses.Add(r.Context(), 1)

	categories, err := h.source.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cache.Set(cacheKeyCategories, categories)
	h.writeJSON(w, http.StatusOK, categories)
}

type suggestionsRequest struct {
	Cart  []string `json:"cart"`
	Limit int      `json:"limit"`
}

const defaultSuggestionLimit = 4

// HandleSuggestions ranks cross-sell suggestions for the cart in the
// request body.
func (h *StoreHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSuggestionLimit
	}

	products, err := h.activeCatalog(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Sold-out products never make sense as suggestions.
	pool := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.InStock() {
			pool = append(pool, p)
		}
	}

	suggestions := h.scorer.Suggest(pool, req.Cart, req.Limit)

	h.logger.Info("suggestions ranked", "cart_size", len(req.Cart), "count", len(suggestions))
	h.writeJSON(w, http.StatusOK, suggestions)
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

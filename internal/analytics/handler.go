package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// OrderSource feeds order history into the reports.
type OrderSource interface {
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Order, error)
}

// ProductSource feeds the current catalog into the reports.
type ProductSource interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// Handler serves the admin analytics endpoints. The clock is injectable
// so report windows are reproducible in tests.
type Handler struct {
	orders   OrderSource
	products ProductSource
	now      func() time.Time
	logger   *slog.Logger
}

func NewHandler(orders OrderSource, products ProductSource, logger *slog.Logger) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

func (h *Handler) HandleABC(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	products, err := h.products.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	report := ClassifyABC(orders, products)
	h.logger.Info("abc report computed", "items", len(report.Items))
	h.writeJSON(w, http.StatusOK, report)
}

type forecastRow struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	StockQuantity  int     `json:"stock_quantity"`
	MinStock       int     `json:"min_stock"`
	ProjectedStock float64 `json:"projected_stock"`
	AtRisk         bool    `json:"at_risk"`
}

// HandleForecast projects every product's stock after ?days (default 2)
// at the run rate of the last 30 days.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	horizonDays := 2
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
		horizonDays = n
	}

	now := h.now()
	orders, err := h.orders.ListSince(r.Context(), now.AddDate(0, 0, -DefaultLookbackDays))
	if err != nil {
		h.logger.Error("failed to load orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	products, err := h.products.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	rows := make([]forecastRow, 0, len(products))
	for _, p := range products {
		projected := Forecast(p.StockQuantity, p.ID, orders, DefaultLookbackDays, horizonDays, now)
		rows = append(rows, forecastRow{
			ProductID:      p.ID,
			Name:           p.Name,
			StockQuantity:  p.StockQuantity,
			MinStock:       p.MinStock,
			ProjectedStock: projected,
			AtRisk:         projected <= float64(p.MinStock),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"horizon_days": horizonDays,
		"products":     rows,
	})
}

type summaryResponse struct {
	OrderCount    int                        `json:"order_count"`
	Revenue       decimal.Decimal            `json:"revenue"`
	AverageTicket decimal.Decimal            `json:"average_ticket"`
	LowStockCount int                        `json:"low_stock_count"`
	Payments      map[domain.PaymentKind]int `json:"payments"`
}

// HandleSummary aggregates the dashboard headline numbers from all
// orders: count, revenue, average ticket, a payment-kind breakdown and
// how many products sit at or below their minimum stock.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	products, err := h.products.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	summary := summaryResponse{
		Payments: map[domain.PaymentKind]int{},
	}
	revenue := decimal.Zero
	for _, o := range orders {
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		summary.OrderCount++
		revenue = revenue.Add(o.TotalAmount)
		summary.Payments[domain.ClassifyPayment(o.PaymentMethod)]++
	}
	summary.Revenue = revenue
	if summary.OrderCount > 0 {
		summary.AverageTicket = revenue.Div(decimal.NewFromInt(int64(summary.OrderCount))).Round(2)
	} else {
		summary.AverageTicket = decimal.Zero
	}

	for _, p := range products {
		if p.IsActive && p.StockQuantity <= p.MinStock {
			summary.LowStockCount++
		}
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandlePromotions(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	orders, err := h.orders.ListSince(r.Context(), now.AddDate(0, 0, -DefaultLookbackDays))
	if err != nil {
		h.logger.Error("failed to load orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	products, err := h.products.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	suggestions := SuggestPromotions(products, orders, now)
	h.logger.Info("promotions suggested", "count", len(suggestions))
	h.writeJSON(w, http.StatusOK, suggestions)
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

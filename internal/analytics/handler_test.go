package analytics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type stubOrders struct {
	orders []domain.Order
}

func (s *stubOrders) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders, nil
}

func (s *stubOrders) ListSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

type stubProducts struct {
	products []domain.Product
}

func (s *stubProducts) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func testHandler(orders []domain.Order, products []domain.Product, now time.Time) *Handler {
	h := NewHandler(&stubOrders{orders: orders}, &stubProducts{products: products},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return now }
	return h
}

func TestHandleForecast(t *testing.T) {
	now := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	ice := catalogProduct("ice", "Gelo", 8.00, 15)
	ice.MinStock = 12
	products := []domain.Product{catalogProduct("beer", "Cerveja", 5.00, 20), ice}
	orders := []domain.Order{
		orderWith(now.AddDate(0, 0, -10), item("beer", 60), item("ice", 30)), // 2/day and 1/day over the 30-day window
	}
	handler := testHandler(orders, products, now)

	rec := httptest.NewRecorder()
	handler.HandleForecast(rec, httptest.NewRequest(http.MethodGet, "/analytics/forecast?days=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		HorizonDays int           `json:"horizon_days"`
		Products    []forecastRow `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HorizonDays != 5 {
		t.Errorf("horizon = %d, want 5", resp.HorizonDays)
	}
	if len(resp.Products) != 2 || resp.Products[0].ProjectedStock != 10 {
		t.Fatalf("products = %+v, want beer projected 10", resp.Products)
	}
	if resp.Products[0].AtRisk {
		t.Errorf("beer at risk, want safe at projected %v", resp.Products[0].ProjectedStock)
	}
	// Ice lands at 10 with min stock 12.
	if !resp.Products[1].AtRisk {
		t.Errorf("ice not at risk, projected %v min %d", resp.Products[1].ProjectedStock, resp.Products[1].MinStock)
	}

	t.Run("invalid days", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleForecast(rec, httptest.NewRequest(http.MethodGet, "/analytics/forecast?days=zero", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleSummary(t *testing.T) {
	now := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	products := []domain.Product{
		{ID: "low", Name: "Gelo", StockQuantity: 2, MinStock: 5, IsActive: true},
		{ID: "ok", Name: "Cerveja", StockQuantity: 50, MinStock: 10, IsActive: true},
	}
	orders := []domain.Order{
		{TotalAmount: decimal.RequireFromString("40.00"), PaymentMethod: "Pix", Status: domain.OrderStatusDelivered, CreatedAt: now},
		{TotalAmount: decimal.RequireFromString("20.00"), PaymentMethod: "Dinheiro", Status: domain.OrderStatusPending, CreatedAt: now},
		{TotalAmount: decimal.RequireFromString("99.00"), PaymentMethod: "Pix", Status: domain.OrderStatusCancelled, CreatedAt: now},
	}
	handler := testHandler(orders, products, now)

	rec := httptest.NewRecorder()
	handler.HandleSummary(rec, httptest.NewRequest(http.MethodGet, "/analytics/summary", nil))

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// The cancelled order is excluded everywhere.
	if resp.OrderCount != 2 {
		t.Errorf("order count = %d, want 2", resp.OrderCount)
	}
	if !resp.Revenue.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("revenue = %s, want 60.00", resp.Revenue)
	}
	if !resp.AverageTicket.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("average ticket = %s, want 30.00", resp.AverageTicket)
	}
	if resp.Payments[domain.PaymentPix] != 1 || resp.Payments[domain.PaymentCash] != 1 {
		t.Errorf("payments = %v", resp.Payments)
	}
	if resp.LowStockCount != 1 {
		t.Errorf("low stock = %d, want 1", resp.LowStockCount)
	}
}

func TestHandleABCEndpoint(t *testing.T) {
	now := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	products := []domain.Product{catalogProduct("beer", "Cerveja", 5.00, 50)}
	orders := []domain.Order{orderWith(now, item("beer", 10))}
	handler := testHandler(orders, products, now)

	rec := httptest.NewRecorder()
	handler.HandleABC(rec, httptest.NewRequest(http.MethodGet, "/analytics/abc", nil))

	var report ABCReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Items) != 1 || !report.TotalRevenue.Equal(decimal.NewFromInt(50)) {
		t.Errorf("report = %+v", report)
	}
}

func TestHandlePromotionsEndpoint(t *testing.T) {
	// June: the São João seasonal card must appear.
	now := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	handler := testHandler(nil, nil, now)

	rec := httptest.NewRecorder()
	handler.HandlePromotions(rec, httptest.NewRequest(http.MethodGet, "/analytics/promotions", nil))

	var suggestions []PromoSuggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &suggestions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].ID != "sazonal-saojoao" {
		t.Errorf("suggestions = %+v", suggestions)
	}
}

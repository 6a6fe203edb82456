package orders

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type stubStore struct {
	created *domain.Order
	err     error
}

func (s *stubStore) Create(ctx context.Context, order *domain.Order) error {
	if s.err != nil {
		return s.err
	}
	order.ID = "order-1"
	s.created = order
	return nil
}

type stubProducts struct {
	products []domain.Product
}

func (s *stubProducts) ListActive(ctx context.Context) ([]domain.Product, error) {
	return s.products, nil
}

type stubCoupons struct {
	coupon *domain.Coupon
}

func (s *stubCoupons) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if s.coupon != nil && strings.EqualFold(s.coupon.Code, strings.TrimSpace(code)) {
		return s.coupon, nil
	}
	return nil, nil
}

type stubFees struct {
	fees map[string]decimal.Decimal
}

func (s *stubFees) GetByNeighborhood(ctx context.Context, neighborhood string) (*domain.DeliveryFee, error) {
	fee, ok := s.fees[domain.Normalize(neighborhood)]
	if !ok {
		return nil, nil
	}
	return &domain.DeliveryFee{ID: "fee-1", Neighborhood: neighborhood, Fee: fee}, nil
}

type stubPublisher struct {
	events []any
}

func (s *stubPublisher) Publish(ctx context.Context, key string, event any) error {
	s.events = append(s.events, event)
	return nil
}

func checkoutFixture() (*CheckoutHandler, *stubStore, *stubPublisher) {
	store := &stubStore{}
	publisher := &stubPublisher{}
	products := &stubProducts{products: []domain.Product{
		{ID: "beer", Name: "Cerveja Lata", Price: decimal.RequireFromString("5.00"), IsActive: true},
		{ID: "ice", Name: "Gelo 2kg", Price: decimal.RequireFromString("8.00"), IsActive: true},
	}}
	couponSource := &stubCoupons{coupon: &domain.Coupon{
		ID: "c1", Code: "GELA10", Value: decimal.NewFromInt(10),
		Type: domain.CouponPercent, IsActive: true,
	}}
	fees := &stubFees{fees: map[string]decimal.Decimal{
		"centro": decimal.RequireFromString("4.00"),
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCheckoutHandler(store, products, couponSource, fees, publisher, logger), store, publisher
}

func postCheckout(t *testing.T, handler *CheckoutHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	handler.HandleCheckout(rec, req)
	return rec
}

const validCheckout = `{
	"customer_name": "Maria",
	"customer_phone": "+5585999990000",
	"address": "Rua A, 10",
	"neighborhood": "Centro",
	"payment_method": "Pix",
	"items": [
		{"product_id": "beer", "quantity": 6},
		{"product_id": "ice", "quantity": 1}
	]
}`

func TestCheckout(t *testing.T) {
	t.Run("totals from live catalog prices", func(t *testing.T) {
		handler, store, publisher := checkoutFixture()

		rec := postCheckout(t, handler, validCheckout)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		order := store.created
		if order == nil {
			t.Fatal("order not persisted")
		}
		// 6*5.00 + 1*8.00 = 38.00, plus fee 4.00.
		if !order.Subtotal.Equal(decimal.RequireFromString("38.00")) {
			t.Errorf("subtotal = %s, want 38.00", order.Subtotal)
		}
		if !order.TotalAmount.Equal(decimal.RequireFromString("42.00")) {
			t.Errorf("total = %s, want 42.00", order.TotalAmount)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("status = %s, want pending", order.Status)
		}
		if len(order.Items) != 2 || !order.Items[0].Price.Equal(decimal.RequireFromString("5.00")) {
			t.Errorf("items = %+v", order.Items)
		}

		if len(publisher.events) != 1 {
			t.Fatalf("events = %d, want 1", len(publisher.events))
		}
		event := publisher.events[0].(domain.OrderPlacedEvent)
		if event.OrderID != "order-1" {
			t.Errorf("event order id = %s", event.OrderID)
		}
	})

	t.Run("applies percent coupon to subtotal only", func(t *testing.T) {
		handler, store, _ := checkoutFixture()

		body := strings.Replace(validCheckout, `"payment_method": "Pix",`,
			`"payment_method": "Pix", "coupon_code": "gela10",`, 1)
		rec := postCheckout(t, handler, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		order := store.created
		// 10% of 38.00 = 3.80 off; delivery fee is not discounted.
		if !order.Discount.Equal(decimal.RequireFromString("3.80")) {
			t.Errorf("discount = %s, want 3.80", order.Discount)
		}
		if !order.TotalAmount.Equal(decimal.RequireFromString("38.20")) {
			t.Errorf("total = %s, want 38.20", order.TotalAmount)
		}
		if order.AppliedCoupon != "GELA10" {
			t.Errorf("applied coupon = %q, want GELA10", order.AppliedCoupon)
		}
	})

	t.Run("rejects unknown coupon", func(t *testing.T) {
		handler, _, _ := checkoutFixture()

		body := strings.Replace(validCheckout, `"payment_method": "Pix",`,
			`"payment_method": "Pix", "coupon_code": "NOPE",`, 1)
		rec := postCheckout(t, handler, body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("rejects product missing from catalog", func(t *testing.T) {
		handler, _, _ := checkoutFixture()

		body := strings.Replace(validCheckout, `"product_id": "beer"`, `"product_id": "ghost"`, 1)
		rec := postCheckout(t, handler, body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("rejects unserved neighborhood", func(t *testing.T) {
		handler, _, _ := checkoutFixture()

		body := strings.Replace(validCheckout, `"neighborhood": "Centro"`, `"neighborhood": "Longe"`, 1)
		rec := postCheckout(t, handler, body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		handler, _, _ := checkoutFixture()

		rec := postCheckout(t, handler, `{
			"customer_name": "Maria", "address": "Rua A", "neighborhood": "Centro",
			"payment_method": "Pix", "items": []
		}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		handler, _, _ := checkoutFixture()

		body := strings.Replace(validCheckout, `"quantity": 6`, `"quantity": 0`, 1)
		rec := postCheckout(t, handler, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("fixed coupon never drives subtotal negative", func(t *testing.T) {
		handler, store, _ := checkoutFixture()
		handler.coupons = &stubCoupons{coupon: &domain.Coupon{
			ID: "c2", Code: "BIG", Value: decimal.NewFromInt(500),
			Type: domain.CouponFixed, IsActive: true,
		}}

		body := strings.Replace(validCheckout, `"payment_method": "Pix",`,
			`"payment_method": "Pix", "coupon_code": "BIG",`, 1)
		rec := postCheckout(t, handler, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		// Discount is clamped to the subtotal; only the fee remains.
		if !store.created.TotalAmount.Equal(decimal.RequireFromString("4.00")) {
			t.Errorf("total = %s, want 4.00", store.created.TotalAmount)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	created := time.Date(2026, time.July, 1, 10, 30, 0, 0, time.UTC)
	orders := []domain.Order{{
		ID:            "o1",
		CustomerName:  "João, o \"Rei\"",
		PaymentMethod: "Cartão de Crédito",
		Subtotal:      decimal.RequireFromString("38.00"),
		DeliveryFee:   decimal.RequireFromString("4.00"),
		Discount:      decimal.RequireFromString("3.80"),
		TotalAmount:   decimal.RequireFromString("38.20"),
		AppliedCoupon: "GELA10",
		CreatedAt:     created,
	}}

	var buf strings.Builder
	if err := WriteCSV(&buf, orders); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0] != "id,created_at,customer_name,payment_method,subtotal,delivery_fee,discount,total_amount,applied_coupon" {
		t.Errorf("header = %s", lines[0])
	}
	// Commas and quotes in the customer name must be escaped.
	if !strings.Contains(lines[1], `"João, o ""Rei"""`) {
		t.Errorf("row = %s", lines[1])
	}
	if !strings.Contains(lines[1], "2026-07-01T10:30:00Z") {
		t.Errorf("row = %s", lines[1])
	}
}

func TestCheckoutResponseBody(t *testing.T) {
	handler, _, _ := checkoutFixture()

	rec := postCheckout(t, handler, validCheckout)
	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if order.ID != "order-1" {
		t.Errorf("id = %s, want order-1", order.ID)
	}
}

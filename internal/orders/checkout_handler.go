// Package orders holds order persistence, the storefront checkout flow
// and the back-office order management endpoints.
package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/coupons"
	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// OrderStore persists orders.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
}

// ProductSource resolves the active catalog at checkout time.
type ProductSource interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
}

// CouponSource looks up a coupon for re-validation at checkout.
type CouponSource interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// FeeSource resolves a neighborhood's delivery fee.
type FeeSource interface {
	GetByNeighborhood(ctx context.Context, neighborhood string) (*domain.DeliveryFee, error)
}

// Publisher announces placed orders.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// CheckoutHandler turns a cart into a persisted order. Prices come from
// the live catalog, never from the request; the coupon is re-validated
// server side even if the storefront already validated it.
type CheckoutHandler struct {
	store    OrderStore
	products ProductSource
	coupons  CouponSource
	fees     FeeSource
	producer Publisher
	logger   *slog.Logger
}

func NewCheckoutHandler(store OrderStore, products ProductSource, couponSource CouponSource, fees FeeSource, producer Publisher, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		store:    store,
		products: products,
		coupons:  couponSource,
		fees:     fees,
		producer: producer,
		logger:   logger,
	}
}

type checkoutRequest struct {
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Address       string            `json:"address"`
	Neighborhood  string            `json:"neighborhood"`
	PaymentMethod string            `json:"payment_method"`
	CouponCode    string            `json:"coupon_code"`
	Items         []domain.CartItem `json:"items"`
}

func (req *checkoutRequest) validate() string {
	switch {
	case req.CustomerName == "":
		return "customer name required"
	case req.Address == "":
		return "address required"
	case req.Neighborhood == "":
		return "neighborhood required"
	case req.PaymentMethod == "":
		return "payment method required"
	case len(req.Items) == 0:
		return "cart is empty"
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return "item quantities must be positive"
		}
	}
	return ""
}

func (h *CheckoutHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		h.reject(r, w, http.StatusBadRequest, msg)
		return
	}

	catalog, err := h.products.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	// Freeze line items from the live catalog.
	items := make([]domain.OrderItem, 0, len(req.Items))
	cartIDs := make([]string, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, cartItem := range req.Items {
		product, ok := byID[cartItem.ProductID]
		if !ok {
			h.reject(r, w, http.StatusUnprocessableEntity, "product not available: "+cartItem.ProductID)
			return
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  cartItem.Quantity,
		})
		cartIDs = append(cartIDs, product.ID)
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))
	}

	now := time.Now().UTC()

	discount := decimal.Zero
	appliedCoupon := ""
	if req.CouponCode != "" {
		coupon, err := h.coupons.GetByCode(r.Context(), req.CouponCode)
		if err != nil {
			h.logger.Error("failed to look up coupon", "error", err, "code", req.CouponCode)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err := coupons.Validate(coupon, cartIDs, now); err != nil {
			h.reject(r, w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		discount = coupon.DiscountOn(subtotal)
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		appliedCoupon = coupon.Code
	}

	fee, err := h.fees.GetByNeighborhood(r.Context(), req.Neighborhood)
	if err != nil {
		h.logger.Error("failed to look up delivery fee", "error", err, "neighborhood", req.Neighborhood)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if fee == nil {
		h.reject(r, w, http.StatusUnprocessableEntity, "delivery area not served: "+req.Neighborhood)
		return
	}

	order := &domain.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Neighborhood:  fee.Neighborhood,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   fee.Fee,
		TotalAmount:   subtotal.Sub(discount).Add(fee.Fee),
		AppliedCoupon: appliedCoupon,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.store.Create(r.Context(), order); err != nil {
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.producer != nil {
		event := domain.OrderPlacedEvent{
			OrderID:       order.ID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			Address:       order.Address,
			Neighborhood:  order.Neighborhood,
			Items:         order.Items,
			Subtotal:      order.Subtotal,
			Discount:      order.Discount,
			DeliveryFee:   order.DeliveryFee,
			TotalAmount:   order.TotalAmount,
			AppliedCoupon: order.AppliedCoupon,
			PaymentMethod: order.PaymentMethod,
			Timestamp:     order.CreatedAt,
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	ordersPlaced.Add(r.Context(), 1)
	h.logger.Info("order placed",
		"order_id", order.ID, "total", order.TotalAmount,
		"payment", domain.ClassifyPayment(order.PaymentMethod), "items", len(order.Items))
	h.writeJSON(w, http.StatusCreated, order)
}

// reject counts a client-visible checkout rejection before writing it.
func (h *CheckoutHandler) reject(r *http.Request, w http.ResponseWriter, status int, message string) {
	checkoutRejected.Add(r.Context(), 1)
	h.writeError(w, status, message)
}

func (h *CheckoutHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *CheckoutHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

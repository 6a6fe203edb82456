package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

func placedEvent() domain.OrderPlacedEvent {
	return domain.OrderPlacedEvent{
		OrderID:       "order-1",
		CustomerName:  "Maria",
		CustomerPhone: "+5585999990000",
		Address:       "Rua A, 10",
		Neighborhood:  "Centro",
		Items: []domain.OrderItem{
			{ProductID: "beer", Name: "Cerveja Lata", Quantity: 6, Price: decimal.RequireFromString("5.00")},
			{ProductID: "ice", Name: "Gelo 2kg", Quantity: 1, Price: decimal.RequireFromString("8.00")},
		},
		Subtotal:      decimal.RequireFromString("38.00"),
		DeliveryFee:   decimal.RequireFromString("4.00"),
		TotalAmount:   decimal.RequireFromString("42.00"),
		PaymentMethod: "Pix",
	}
}

func TestOrderMessage(t *testing.T) {
	event := placedEvent()
	msg := OrderMessage("Help Gela", event)

	for _, want := range []string{
		"*🚀 NOVO PEDIDO - HELP GELA*",
		"*CLIENTE:* Maria",
		"*BAIRRO:* Centro",
		"• 6x Cerveja Lata",
		"• 1x Gelo 2kg",
		"*TOTAL:* R$ 42.00",
		"*PAGAMENTO:* Pix",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "CUPOM") {
		t.Error("coupon line present without a coupon")
	}

	event.AppliedCoupon = "GELA10"
	if msg := OrderMessage("Help Gela", event); !strings.Contains(msg, "*CUPOM:* GELA10") {
		t.Error("coupon line missing")
	}
}

func TestNotificationHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("forwards message to the gateway", func(t *testing.T) {
		var received map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/send" {
				t.Errorf("path = %s, want /send", r.URL.Path)
			}
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		handler := NewNotificationHandler(server.URL, "Help Gela", server.Client(), logger)
		payload, _ := json.Marshal(placedEvent())

		if err := handler.Handle(context.Background(), payload); err != nil {
			t.Fatalf("handle: %v", err)
		}
		if received["to"] != "+5585999990000" {
			t.Errorf("to = %s", received["to"])
		}
		if !strings.Contains(received["message"], "NOVO PEDIDO") {
			t.Errorf("message = %s", received["message"])
		}
	})

	t.Run("gateway failure is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		handler := NewNotificationHandler(server.URL, "Help Gela", server.Client(), logger)
		payload, _ := json.Marshal(placedEvent())

		if err := handler.Handle(context.Background(), payload); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		handler := NewNotificationHandler("http://unused", "Help Gela", http.DefaultClient, logger)
		if err := handler.Handle(context.Background(), []byte("{")); err == nil {
			t.Error("expected error")
		}
	})
}

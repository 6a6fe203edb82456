// Package worker consumes placed orders and pushes the order summary to
// the WhatsApp gateway.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type NotificationHandler struct {
	whatsappServiceURL string
	storeName          string
	httpClient         *http.Client
	logger             *slog.Logger
}

func NewNotificationHandler(whatsappServiceURL, storeName string, client *http.Client, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		whatsappServiceURL: whatsappServiceURL,
		storeName:          storeName,
		httpClient:         client,
		logger:             logger,
	}
}

func (h *NotificationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("processing order placed event",
		"order_id", event.OrderID, "customer", event.CustomerName)

	if err := h.sendMessage(ctx, event); err != nil {
		h.logger.Error("failed to send whatsapp message", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send whatsapp message: %w", err)
	}

	h.logger.Info("order notification sent", "order_id", event.OrderID)
	return nil
}

// OrderMessage renders the WhatsApp text the shop owner receives for a
// new order.
func OrderMessage(storeName string, event domain.OrderPlacedEvent) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*🚀 NOVO PEDIDO - %s*\n\n", strings.ToUpper(storeName))
	fmt.Fprintf(&b, "*CLIENTE:* %s\n", event.CustomerName)
	fmt.Fprintf(&b, "*ENDEREÇO:* %s\n", event.Address)
	fmt.Fprintf(&b, "*BAIRRO:* %s\n\n", event.Neighborhood)

	b.WriteString("*ITENS:*\n")
	for _, item := range event.Items {
		fmt.Fprintf(&b, "• %dx %s\n", item.Quantity, item.Name)
	}

	fmt.Fprintf(&b, "\n*TOTAL:* R$ %s\n", event.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "*PAGAMENTO:* %s", event.PaymentMethod)
	if event.AppliedCoupon != "" {
		fmt.Fprintf(&b, "\n*CUPOM:* %s", event.AppliedCoupon)
	}

	return b.String()
}

func (h *NotificationHandler) sendMessage(ctx context.Context, event domain.OrderPlacedEvent) error {
	body := map[string]string{
		"to":      event.CustomerPhone,
		"message": OrderMessage(h.storeName, event),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.whatsappServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp service returned status %d", resp.StatusCode)
	}

	return nil
}

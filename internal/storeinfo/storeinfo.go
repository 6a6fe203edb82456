// Package storeinfo exposes the shop's public profile: contact details,
// opening hours and whether the store is currently taking orders.
package storeinfo

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type Config struct {
	Name        string
	Phone       string
	Address     string
	OpeningTime string
	ClosingTime string
}

// OpenAt reports whether the store accepts orders at the given moment.
// Times are compared as zero-padded "HH:MM" strings, both bounds
// inclusive.
func (c Config) OpenAt(now time.Time) bool {
	current := now.Format("15:04")
	return current >= c.OpeningTime && current <= c.ClosingTime
}

type Handler struct {
	config Config
	now    func() time.Time
	logger *slog.Logger
}

func NewHandler(config Config, logger *slog.Logger) *Handler {
	return &Handler{
		config: config,
		now:    time.Now,
		logger: logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"name":         h.config.Name,
		"phone":        h.config.Phone,
		"address":      h.config.Address,
		"opening_time": h.config.OpeningTime,
		"closing_time": h.config.ClosingTime,
		"open":         h.config.OpenAt(h.now()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

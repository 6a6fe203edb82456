package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Handler fronts the public storefront service and the back-office
// service under a single host: /admin/* goes to the back office, with
// the prefix stripped; everything else goes to the storefront.
type Handler struct {
	storeProxy *ServiceProxy
	adminProxy *ServiceProxy
	logger     *slog.Logger
}

func NewHandler(storeProxy, adminProxy *ServiceProxy, logger *slog.Logger) *Handler {
	return &Handler{
		storeProxy: storeProxy,
		adminProxy: adminProxy,
		logger:     logger,
	}
}

func (h *Handler) HandleStore(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.storeProxy, r.URL.Path)
}

func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/admin")
	if path == "" {
		path = "/"
	}
	h.proxyRequest(w, r, h.adminProxy, path)
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy, path string) {
	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path)
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		w.Header().Set("Content-Disposition", disposition)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied", "method", r.Method, "path", path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}

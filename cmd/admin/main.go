package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/joao-fontenele/mercadinho/internal/analytics"
	"github.com/joao-fontenele/mercadinho/internal/audit"
	"github.com/joao-fontenele/mercadinho/internal/auth"
	"github.com/joao-fontenele/mercadinho/internal/catalog"
	"github.com/joao-fontenele/mercadinho/internal/coupons"
	"github.com/joao-fontenele/mercadinho/internal/delivery"
	"github.com/joao-fontenele/mercadinho/internal/messaging"
	"github.com/joao-fontenele/mercadinho/internal/orders"
	"github.com/joao-fontenele/mercadinho/internal/telemetry"
)

const tokenTTL = 12 * time.Hour

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "admin", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("admin", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime metrics", "error", err)
		os.Exit(1)
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var catalogProducer *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		catalogProducer = messaging.NewProducer(brokers, messaging.TopicCatalogChanged)
		defer func() { _ = catalogProducer.Close() }()
	}

	auditor := audit.NewRecorder(db, logger)

	catalogRepo := catalog.NewRepository(db)
	couponRepo := coupons.NewRepository(db)
	deliveryRepo := delivery.NewRepository(db)
	orderRepo := orders.NewRepository(db)
	userRepo := auth.NewUserRepository(db)

	authService := auth.NewService([]byte(jwtSecret), tokenTTL)
	authHandler := auth.NewHandler(userRepo, authService, logger)
	catalogHandler := catalog.NewAdminHandler(catalogRepo, catalogProducer, auditor, logger)
	couponHandler := coupons.NewAdminHandler(couponRepo, auditor, logger)
	deliveryHandler := delivery.NewHandler(deliveryRepo, auditor, logger)
	orderHandler := orders.NewAdminHandler(orderRepo, auditor, logger)
	analyticsHandler := analytics.NewHandler(orderRepo, catalogRepo, logger)
	auditHandler := audit.NewHandler(auditor, logger)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /products", catalogHandler.HandleListProducts)
	protected.HandleFunc("POST /products", catalogHandler.HandleCreateProduct)
	protected.HandleFunc("POST /products/bulk-delete", catalogHandler.HandleBulkDeleteProducts)
	protected.HandleFunc("GET /products/{id}", catalogHandler.HandleGetProduct)
	protected.HandleFunc("PUT /products/{id}", catalogHandler.HandleUpdateProduct)
	protected.HandleFunc("DELETE /products/{id}", catalogHandler.HandleDeleteProduct)
	protected.HandleFunc("GET /categories", catalogHandler.HandleListCategories)
	protected.HandleFunc("POST /categories", catalogHandler.HandleCreateCategory)
	protected.HandleFunc("PUT /categories/{id}", catalogHandler.HandleUpdateCategory)
	protected.HandleFunc("DELETE /categories/{id}", catalogHandler.HandleDeleteCategory)
	protected.HandleFunc("GET /coupons", couponHandler.HandleList)
	protected.HandleFunc("POST /coupons", couponHandler.HandleCreate)
	protected.HandleFunc("PUT /coupons/{id}", couponHandler.HandleUpdate)
	protected.HandleFunc("DELETE /coupons/{id}", couponHandler.HandleDelete)
	protected.HandleFunc("PATCH /coupons/{id}/active", couponHandler.HandleSetActive)
	protected.HandleFunc("PATCH /coupons/{id}/expiry", couponHandler.HandleSetExpiry)
	protected.HandleFunc("GET /delivery-fees", deliveryHandler.HandleList)
	protected.HandleFunc("POST /delivery-fees", deliveryHandler.HandleCreate)
	protected.HandleFunc("PUT /delivery-fees/{id}", deliveryHandler.HandleUpdate)
	protected.HandleFunc("DELETE /delivery-fees/{id}", deliveryHandler.HandleDelete)
	protected.HandleFunc("GET /orders", orderHandler.HandleList)
	protected.HandleFunc("GET /orders/export.csv", orderHandler.HandleExportCSV)
	protected.HandleFunc("GET /orders/{id}", orderHandler.HandleGet)
	protected.HandleFunc("PATCH /orders/{id}/status", orderHandler.HandleUpdateStatus)
	protected.HandleFunc("GET /analytics/summary", analyticsHandler.HandleSummary)
	protected.HandleFunc("GET /analytics/abc", analyticsHandler.HandleABC)
	protected.HandleFunc("GET /analytics/forecast", analyticsHandler.HandleForecast)
	protected.HandleFunc("GET /analytics/promotions", analyticsHandler.HandlePromotions)
	protected.HandleFunc("GET /audit", auditHandler.HandleList)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", telemetry.WithHTTPRoute(authHandler.HandleLogin))
	mux.Handle("GET /metrics", metricsHandler)
	mux.Handle("/", authService.RequireAuth(protected))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "admin",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting admin service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

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
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/joao-fontenele/mercadinho/internal/audit"
	"github.com/joao-fontenele/mercadinho/internal/catalog"
	"github.com/joao-fontenele/mercadinho/internal/coupons"
	"github.com/joao-fontenele/mercadinho/internal/delivery"
	"github.com/joao-fontenele/mercadinho/internal/messaging"
	"github.com/joao-fontenele/mercadinho/internal/orders"
	"github.com/joao-fontenele/mercadinho/internal/recommend"
	"github.com/joao-fontenele/mercadinho/internal/snapshot"
	"github.com/joao-fontenele/mercadinho/internal/storeinfo"
	"github.com/joao-fontenele/mercadinho/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "store", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("store", "0.1.0")
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

	var orderProducer *messaging.Producer
	var catalogConsumer *messaging.Consumer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		orderProducer = messaging.NewProducer(brokers, messaging.TopicOrderPlaced)
		defer func() { _ = orderProducer.Close() }()

		// Every store instance keeps its own catalog snapshot, so each
		// one joins its own consumer group to see every change event.
		// Events from before startup are irrelevant since the snapshot
		// is rebuilt from the database on the first cache miss.
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "store"
		}
		catalogConsumer = messaging.NewConsumer(brokers, messaging.TopicCatalogChanged, "store-cache-"+hostname,
			messaging.WithStartOffset(kafka.LastOffset))
		defer func() { _ = catalogConsumer.Close() }()
	}

	cache := snapshot.New()
	scorer := recommend.NewScorer(recommend.DefaultTaxonomy())

	catalogRepo := catalog.NewRepository(db)
	couponRepo := coupons.NewRepository(db)
	deliveryRepo := delivery.NewRepository(db)
	orderRepo := orders.NewRepository(db)
	auditor := audit.NewRecorder(db, logger)

	storeHandler := catalog.NewStoreHandler(catalogRepo, cache, scorer, logger)
	infoHandler := storeinfo.NewHandler(storeinfo.Config{
		Name:        envOr("STORE_NAME", "Mercadinho"),
		Phone:       os.Getenv("STORE_PHONE"),
		Address:     os.Getenv("STORE_ADDRESS"),
		OpeningTime: envOr("STORE_OPENING_TIME", "18:00"),
		ClosingTime: envOr("STORE_CLOSING_TIME", "23:59"),
	}, logger)
	couponHandler := coupons.NewStoreHandler(couponRepo, logger)
	deliveryHandler := delivery.NewHandler(deliveryRepo, auditor, logger)

	var publisher orders.Publisher
	if orderProducer != nil {
		publisher = orderProducer
	}
	checkoutHandler := orders.NewCheckoutHandler(orderRepo, catalogRepo, couponRepo, deliveryRepo, publisher, logger)

	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()

	if catalogConsumer != nil {
		invalidator := catalog.NewInvalidator(cache, logger)
		go func() {
			if err := catalogConsumer.Consume(consumerCtx, invalidator.Handle); err != nil && consumerCtx.Err() == nil {
				logger.Error("catalog consumer error", "error", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(storeHandler.HandleListProducts))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(storeHandler.HandleGetProduct))
	mux.HandleFunc("GET /categories", telemetry.WithHTTPRoute(storeHandler.HandleListCategories))
	mux.HandleFunc("GET /store", telemetry.WithHTTPRoute(infoHandler.HandleGet))
	mux.HandleFunc("POST /suggestions", telemetry.WithHTTPRoute(storeHandler.HandleSuggestions))
	mux.HandleFunc("POST /coupons/validate", telemetry.WithHTTPRoute(couponHandler.HandleValidate))
	mux.HandleFunc("GET /delivery-fees", telemetry.WithHTTPRoute(deliveryHandler.HandleList))
	mux.HandleFunc("POST /checkout", telemetry.WithHTTPRoute(checkoutHandler.HandleCheckout))
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "store",
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
		logger.Info("starting store service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancelConsumer()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

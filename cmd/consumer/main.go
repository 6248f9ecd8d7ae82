// cmd/consumer/main.go

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"verisignal/internal/adapter/storage"
	"verisignal/internal/config"
	"verisignal/internal/domain/event"
	"verisignal/internal/enrich"
	"verisignal/internal/server"
	consumerService "verisignal/internal/service/consumer"
	"verisignal/internal/transport"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies; a store or bus that cannot be reached at
	// startup is fatal
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	var documents *storage.DocumentStore
	if cfg.Mongo.Enabled {
		documents, err = storage.NewDocumentStore(ctx, cfg.Mongo.URL, cfg.Mongo.Database)
		if err != nil {
			logger.Fatalf("Failed to initialize document store: %v", err)
		}
		defer documents.Close(context.Background())
		logger.Info("Document store connected")
	}

	natsConn, err := initNATS(cfg.NATS, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()
	logger.Info("NATS connected")

	// Initialize storage adapters and transport
	socialStore := storage.NewSocialStore(db)
	bus := transport.NewBus(natsConn, cfg.Topics, logger)

	// Initialize the enrichment pipeline
	pipeline := enrich.NewPipeline(
		enrich.DefaultLexicon(),
		extractorConfig(cfg.Enrichment),
		time.Now,
		logger,
	)

	// A nil *DocumentStore must stay a nil interface for the consumer.
	var interactions consumerService.InteractionStore
	if documents != nil {
		interactions = documents
	}

	svc := consumerService.New(pipeline, socialStore, interactions, bus, logger)

	// Subscribe to the consume topics
	if err := bus.SubscribeSocialEvents(func(ev event.RawEvent) {
		svc.HandleSocialEvent(ctx, ev)
	}); err != nil {
		logger.Fatalf("Failed to subscribe to social events: %v", err)
	}

	if err := bus.SubscribeAssistantRequests(func(req event.AssistantRequest) {
		svc.HandleAssistantRequest(ctx, req)
	}); err != nil {
		logger.Fatalf("Failed to subscribe to assistant requests: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"social_events":      cfg.Topics.SocialEvents,
		"assistant_requests": cfg.Topics.AssistantRequests,
	}).Info("Consumer started")

	// Initialize health HTTP server
	httpServer := server.NewServer(cfg.Server, db, natsConn, documents)

	go func() {
		logger.Infof("Starting health server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Health server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	logger.Info("Shutting down services...")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Health server shutdown error: %v", err)
	}

	if err := bus.Drain(); err != nil {
		logger.Errorf("Bus drain error: %v", err)
	}

	logger.Info("Shutdown complete")
}

// newLogger creates the service logger with JSON output
func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, logger *logrus.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	return nats.Connect(cfg.URL, options...)
}

func extractorConfig(cfg config.EnrichmentConfig) enrich.ExtractorConfig {
	return enrich.ExtractorConfig{
		ViralPotentialThreshold:    cfg.ViralPotentialThreshold,
		BrandSafetyThreshold:       cfg.BrandSafetyThreshold,
		EngagementQualityThreshold: cfg.EngagementQualityThreshold,
		VelocityNormalizer:         cfg.VelocityNormalizer,
		ViralMultiplier:            cfg.ViralMultiplier,
	}
}

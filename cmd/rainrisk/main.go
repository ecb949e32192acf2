package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/rain-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rain-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/rain-risk-service/internal/adapter/mapbox"
	"github.com/couchcryptid/rain-risk-service/internal/adapter/owm"
	"github.com/couchcryptid/rain-risk-service/internal/adapter/rabbitmq"
	"github.com/couchcryptid/rain-risk-service/internal/config"
	"github.com/couchcryptid/rain-risk-service/internal/domain"
	"github.com/couchcryptid/rain-risk-service/internal/model"
	"github.com/couchcryptid/rain-risk-service/internal/observability"
	"github.com/couchcryptid/rain-risk-service/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	scorer, err := model.LoadScorer(cfg.ModelPath)
	if err != nil {
		logger.Error("failed to load classifier", "path", cfg.ModelPath, "error", err)
		os.Exit(1)
	}
	logger.Info("classifier loaded", "path", cfg.ModelPath)

	var source pipeline.WeatherSource = owm.NewRateLimitedSource(
		owm.NewClient(cfg.OWMAPIKey, cfg.OWMBaseURL, cfg.OWMUnits, cfg.OWMTimeout, logger),
		cfg.OWMRateLimit, cfg.OWMRateBurst,
	)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		metrics.GeocodeEnabled.Set(0)
		logger.Info("mapbox geocoding disabled")
	}

	publisher, closer, err := newSink(cfg, logger)
	if err != nil {
		logger.Error("failed to create sink", "sink", cfg.Sink, "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	aggregator := pipeline.NewAggregator(scorer, logger, metrics)
	runner := pipeline.NewRunner(source, aggregator, geocoder, publisher, clock, logger, metrics, cfg.FetchConcurrency)
	refresher := pipeline.NewRefresher(runner, cfg.Cities, cfg.RefreshInterval, clock, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, refresher, runner.WithoutPublish(), refresher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start periodic refresh.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("sink close error", "sink", cfg.Sink, "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newSink returns the configured snapshot publisher, or nil when SINK=none.
func newSink(cfg *config.Config, logger *slog.Logger) (pipeline.Publisher, io.Closer, error) {
	switch cfg.Sink {
	case config.SinkKafka:
		w := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
		return w, w, nil
	case config.SinkRabbitMQ:
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.SinkNone:
		logger.Info("snapshot sink disabled")
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}

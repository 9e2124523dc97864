package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kypgh/fitbook-client/internal/config"
	"github.com/kypgh/fitbook-client/pkg/credstore"
	"github.com/kypgh/fitbook-client/pkg/observability"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

type Infrastructure interface {
	Logger() *zap.Logger
	Metrics() *observability.Metrics
	MetricsHandler() http.Handler
	MeterProvider() *metric.MeterProvider
	CredStore() credstore.Store

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	logger         *zap.Logger
	metrics        *observability.Metrics
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
	credStore      credstore.Store
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	meterProvider, metricsHandler, err := observability.InitTelemetry("fitbook-client")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	metrics, err := observability.NewMetrics(meterProvider.Meter("fitbook-client"))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	i.metrics = metrics

	store, err := newCredStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}
	i.credStore = store

	return i, nil
}

func newCredStore(cfg config.Config) (credstore.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendFile:
		return credstore.NewFile(cfg.Store.CredentialPath(), cfg.Store.Passphrase), nil
	case config.StoreBackendMemory:
		return credstore.NewMemory(), nil
	case config.StoreBackendRedis:
		return credstore.NewRedis(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB, cfg.Store.ClientID)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) Metrics() *observability.Metrics {
	return i.metrics
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *infrastructure) CredStore() credstore.Store {
	return i.credStore
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	var errs []error

	if closer, ok := i.credStore.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	errs = append(errs, observability.Shutdown(ctx, i.meterProvider, i.logger))

	return errors.Join(errs...)
}

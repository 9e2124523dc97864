package acceptance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kypgh/fitbook-client/internal/app"
	"github.com/kypgh/fitbook-client/internal/config"
	"github.com/kypgh/fitbook-client/pkg/credstore"
	"github.com/kypgh/fitbook-client/pkg/observability"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// Suite runs the SDK end to end against an in-process stub backend
type Suite struct {
	suite.Suite
	Backend *stubBackend
	Server  *httptest.Server
	App     *app.App

	infra *testInfrastructure
}

func (s *Suite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.Backend = newStubBackend()
	s.Server = httptest.NewServer(s.Backend.router())

	infra, err := newTestInfrastructure()
	if err != nil {
		s.Server.Close()
		s.T().Fatalf("Failed to create test infrastructure: %v", err)
	}
	s.infra = infra
}

func (s *Suite) TearDownSuite() {
	if s.Server != nil {
		s.Server.Close()
	}
	if s.infra != nil {
		_ = s.infra.Shutdown(context.Background())
	}
}

// SetupTest rebuilds the SDK with an empty credential store so no session
// state leaks between tests
func (s *Suite) SetupTest() {
	s.Backend.Reset()
	s.infra.store = credstore.NewMemory()
	s.App = app.NewApp(s.infra, s.testConfig())
}

func (s *Suite) testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:   s.Server.URL,
			Timeout:   config.Duration{Duration: 5 * time.Second},
			UserAgent: "fitbook-client-test/1.0",
		},
		Auth: config.AuthConfig{
			RefreshMaxAttempts: 2,
			RefreshBaseDelay:   config.Duration{Duration: 10 * time.Millisecond},
			RefreshMaxDelay:    config.Duration{Duration: 50 * time.Millisecond},
			ExpirySkew:         config.Duration{Duration: 30 * time.Second},
		},
		Store: config.StoreConfig{
			Backend: config.StoreBackendMemory,
		},
		Env: "test",
	}
}

type testInfrastructure struct {
	logger         *zap.Logger
	metrics        *observability.Metrics
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
	store          credstore.Store
}

var _ app.Infrastructure = &testInfrastructure{}

func newTestInfrastructure() (*testInfrastructure, error) {
	logger, err := observability.InitLogger("test")
	if err != nil {
		return nil, err
	}

	meterProvider, metricsHandler, err := observability.InitTelemetry("fitbook-client-test")
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewMetrics(meterProvider.Meter("fitbook-client-test"))
	if err != nil {
		return nil, err
	}

	return &testInfrastructure{
		logger:         logger,
		metrics:        metrics,
		metricsHandler: metricsHandler,
		meterProvider:  meterProvider,
		store:          credstore.NewMemory(),
	}, nil
}

func (i *testInfrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *testInfrastructure) Metrics() *observability.Metrics {
	return i.metrics
}

func (i *testInfrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *testInfrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *testInfrastructure) CredStore() credstore.Store {
	return i.store
}

func (i *testInfrastructure) Shutdown(ctx context.Context) error {
	return observability.Shutdown(ctx, i.meterProvider, i.logger)
}

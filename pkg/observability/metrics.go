package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the SDK's client-side instruments. A nil *Metrics is valid
// and records nothing, so instrumentation is optional for embedders.
type Metrics struct {
	apiRequests    metric.Int64Counter
	tokenRefreshes metric.Int64Counter
	authEvents     metric.Int64Counter
}

// NewMetrics registers the SDK instruments on the given meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	apiRequests, err := meter.Int64Counter("fitbook_api_requests_total",
		metric.WithDescription("Outbound API requests by method and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api request counter: %w", err)
	}

	tokenRefreshes, err := meter.Int64Counter("fitbook_token_refreshes_total",
		metric.WithDescription("Token refresh attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token refresh counter: %w", err)
	}

	authEvents, err := meter.Int64Counter("fitbook_auth_events_total",
		metric.WithDescription("Authentication lifecycle events by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth event counter: %w", err)
	}

	return &Metrics{
		apiRequests:    apiRequests,
		tokenRefreshes: tokenRefreshes,
		authEvents:     authEvents,
	}, nil
}

// RecordRequest counts an outbound API request
func (m *Metrics) RecordRequest(ctx context.Context, method, outcome string) {
	if m == nil {
		return
	}
	m.apiRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
}

// RecordRefresh counts a token refresh attempt
func (m *Metrics) RecordRefresh(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.tokenRefreshes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordAuthEvent counts an emitted authentication event
func (m *Metrics) RecordAuthEvent(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

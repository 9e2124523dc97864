package app

import (
	"context"

	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/config"
	"github.com/kypgh/fitbook-client/internal/service"
	"github.com/kypgh/fitbook-client/internal/token"
)

// App assembles the SDK: one API client, one token manager owning the
// credential pair, and the services built on top of them
type App struct {
	infra    Infrastructure
	config   *config.Config
	client   *api.Client
	tokens   *token.Manager
	auth     service.AuthService
	bookings service.BookingService
	billing  service.BillingService
}

// NewApp wires the SDK from configuration and infrastructure
func NewApp(infra Infrastructure, cfg *config.Config) *App {
	client := api.NewClient(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout.Duration,
		UserAgent: cfg.API.UserAgent,
	}, infra.Logger(), infra.Metrics())

	tokens := token.NewManager(
		infra.CredStore(),
		service.NewTokenRefresher(client),
		infra.Logger(),
		infra.Metrics(),
		token.Config{
			MaxAttempts: cfg.Auth.RefreshMaxAttempts,
			BaseDelay:   cfg.Auth.RefreshBaseDelay.Duration,
			MaxDelay:    cfg.Auth.RefreshMaxDelay.Duration,
			ExpirySkew:  cfg.Auth.ExpirySkew.Duration,
		},
	)

	// Every authenticated request asks the manager for a token first, so
	// an expired token triggers a refresh before the request goes out.
	client.SetTokenSource(tokens)

	// Keep the client's static token in lockstep with the credential
	// lifecycle: a refresh rotates it, and a dead or cleared session must
	// never leave a stale bearer token behind.
	tokens.Subscribe(token.EventTokenRefreshed, func(ev token.Event) {
		client.SetAuthToken(ev.AccessToken)
	})
	tokens.Subscribe(token.EventTokenExpired, func(ev token.Event) {
		client.ClearAuthToken()
	})
	tokens.Subscribe(token.EventTokensCleared, func(ev token.Event) {
		client.ClearAuthToken()
	})

	return &App{
		infra:    infra,
		config:   cfg,
		client:   client,
		tokens:   tokens,
		auth:     service.NewAuthService(client, tokens, infra.Logger()),
		bookings: service.NewBookingService(client, infra.Logger()),
		billing:  service.NewBillingService(client, infra.Logger()),
	}
}

// Auth returns the authentication service
func (a *App) Auth() service.AuthService {
	return a.auth
}

// Bookings returns the booking service
func (a *App) Bookings() service.BookingService {
	return a.bookings
}

// Billing returns the billing service
func (a *App) Billing() service.BillingService {
	return a.billing
}

// Tokens returns the token manager, for event subscriptions and session
// predicates
func (a *App) Tokens() *token.Manager {
	return a.tokens
}

// Client returns the underlying API client
func (a *App) Client() *api.Client {
	return a.client
}

// Shutdown releases infrastructure resources
func (a *App) Shutdown(ctx context.Context) error {
	return a.infra.Shutdown(ctx)
}

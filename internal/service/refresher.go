package service

import (
	"context"

	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/kypgh/fitbook-client/internal/dto"
	"github.com/kypgh/fitbook-client/internal/token"
)

// tokenRefresher adapts the API client to the token manager's Refresher
// contract. The refresh call carries no Authorization header.
type tokenRefresher struct {
	client *api.Client
}

// NewTokenRefresher creates a refresher over the API client
func NewTokenRefresher(client *api.Client) token.Refresher {
	return &tokenRefresher{client: client}
}

func (r *tokenRefresher) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	body, apiErr := r.client.PostNoAuth(ctx, "/api/v1/auth/refresh", dto.RefreshRequest{
		RefreshToken: refreshToken,
	})
	if apiErr != nil {
		return nil, apiErr
	}

	pair, apiErr := api.ProcessResponse(body, api.IsTokenPairData, api.TransformTokenPair)
	if apiErr != nil {
		return nil, apiErr
	}
	return &pair, nil
}

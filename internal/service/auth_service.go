package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/kypgh/fitbook-client/internal/dto"
	"github.com/kypgh/fitbook-client/internal/token"
	"github.com/kypgh/fitbook-client/internal/utils"
	"go.uber.org/zap"
)

// authService implements AuthService against the backend auth endpoints
type authService struct {
	client *api.Client
	tokens *token.Manager
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(client *api.Client, tokens *token.Manager, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// authPayload is the login/register response payload: the client profile
// plus the freshly issued token pair
type authPayload struct {
	profile domain.ClientProfile
	pair    domain.TokenPair
}

var isAuthData api.Guard = func(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	client, ok := m["client"].(map[string]any)
	if !ok {
		return false
	}
	tokens, ok := m["tokens"].(map[string]any)
	if !ok {
		return false
	}
	return api.IsClientProfileData(client) && api.IsTokenPairData(tokens)
}

func transformAuthData(m map[string]any) authPayload {
	client, _ := m["client"].(map[string]any)
	tokens, _ := m["tokens"].(map[string]any)
	return authPayload{
		profile: api.TransformClientProfile(client),
		pair:    api.TransformTokenPair(tokens),
	}
}

// Register creates a new client account and establishes a session
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.ClientProfile, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.CheckEmail(req.Email); err != nil {
		return nil, &api.Error{Kind: api.ValidationError, Message: "Invalid email format", Details: err.Error()}
	}
	if err := utils.CheckPassword(req.Password); err != nil {
		return nil, &api.Error{
			Kind:    api.ValidationError,
			Message: "Password must be at least 8 characters long and contain uppercase, lowercase, and number",
			Details: err.Error(),
		}
	}

	body, apiErr := s.client.PostNoAuth(ctx, "/api/v1/auth/register", req)
	if apiErr != nil {
		return nil, apiErr
	}
	return s.establishSession(ctx, body)
}

// Login authenticates the client and establishes a session
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.ClientProfile, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.CheckEmail(req.Email); err != nil {
		return nil, &api.Error{Kind: api.ValidationError, Message: "Invalid email format", Details: err.Error()}
	}
	if req.DeviceID == "" {
		req.DeviceID = uuid.NewString()
	}

	body, apiErr := s.client.PostNoAuth(ctx, "/api/v1/auth/login", req)
	if apiErr != nil {
		return nil, apiErr
	}
	return s.establishSession(ctx, body)
}

func (s *authService) establishSession(ctx context.Context, body any) (*domain.ClientProfile, error) {
	payload, apiErr := api.ProcessResponse(body, isAuthData, transformAuthData)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := s.tokens.StoreTokens(ctx, &payload.pair); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	s.client.SetAuthToken(payload.pair.AccessToken)

	s.logger.Info("session established", zap.String("client_id", payload.profile.ID))
	return &payload.profile, nil
}

// Logout ends the session. The server call is best-effort: local
// credentials are always cleared, even when the backend is unreachable.
func (s *authService) Logout(ctx context.Context) error {
	if _, apiErr := s.client.Post(ctx, "/api/v1/auth/logout", nil); apiErr != nil {
		s.logger.Warn("server logout failed", zap.Error(apiErr))
	}

	s.client.ClearAuthToken()
	if err := s.tokens.ClearTokens(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Profile fetches the authenticated client's profile
func (s *authService) Profile(ctx context.Context) (*domain.ClientProfile, error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/auth/profile", nil)
	if apiErr != nil {
		return nil, apiErr
	}

	profile, apiErr := api.ProcessResponse(body, api.IsClientProfileData, api.TransformClientProfile)
	if apiErr != nil {
		return nil, apiErr
	}
	return &profile, nil
}

// UpdateProfile updates the authenticated client's profile
func (s *authService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*domain.ClientProfile, error) {
	body, apiErr := s.client.Put(ctx, "/api/v1/auth/profile", req)
	if apiErr != nil {
		return nil, apiErr
	}

	profile, apiErr := api.ProcessResponse(body, api.IsClientProfileData, api.TransformClientProfile)
	if apiErr != nil {
		return nil, apiErr
	}
	return &profile, nil
}

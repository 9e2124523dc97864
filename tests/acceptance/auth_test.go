package acceptance

import (
	"context"
	"time"

	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/kypgh/fitbook-client/internal/dto"
	"github.com/kypgh/fitbook-client/internal/token"
)

func (s *Suite) register(email string) *domain.ClientProfile {
	profile, err := s.App.Auth().Register(context.Background(), dto.RegisterRequest{
		Email:     email,
		Password:  "Password123",
		FirstName: "Test",
		LastName:  "Client",
	})
	s.Require().NoError(err)
	return profile
}

func (s *Suite) TestRegister_EstablishesSession() {
	profile := s.register("register@example.com")

	s.NotEmpty(profile.ID)
	s.Equal("register@example.com", profile.Email)
	s.True(s.App.Tokens().IsAuthenticated(context.Background()))

	fetched, err := s.App.Auth().Profile(context.Background())
	s.Require().NoError(err)
	s.Equal(profile.ID, fetched.ID)
	s.Equal("Test", fetched.FirstName)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("dup@example.com")

	_, err := s.App.Auth().Register(context.Background(), dto.RegisterRequest{
		Email:    "dup@example.com",
		Password: "Password123",
	})

	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.ValidationError, apiErr.Kind)
	s.Equal("Email already registered", apiErr.Message)
	s.Equal("EMAIL_EXISTS", apiErr.Code)
}

func (s *Suite) TestRegister_InvalidEmail() {
	_, err := s.App.Auth().Register(context.Background(), dto.RegisterRequest{
		Email:    "not-an-email",
		Password: "Password123",
	})

	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.ValidationError, apiErr.Kind)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("wrongpass@example.com")

	_, err := s.App.Auth().Login(context.Background(), dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword123",
	})

	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.AuthenticationError, apiErr.Kind)
	s.Equal("Invalid credentials", apiErr.Message)
	s.False(apiErr.Retryable())
}

func (s *Suite) TestUpdateProfile() {
	s.register("update@example.com")

	updated, err := s.App.Auth().UpdateProfile(context.Background(), dto.UpdateProfileRequest{
		FirstName: "Renamed",
		Phone:     "+35799123456",
	})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.FirstName)
	s.Equal("+35799123456", updated.Phone)
	s.Equal("Client", updated.LastName)
}

func (s *Suite) TestExpiredAccessTokenIsRefreshedTransparently() {
	// Issue tokens that the SDK already considers expired
	s.Backend.SetAccessTTL(10 * time.Second)
	s.register("refresh@example.com")

	var refreshed int
	s.App.Tokens().Subscribe(token.EventTokenRefreshed, func(ev token.Event) {
		refreshed++
		s.NotEmpty(ev.AccessToken)
	})

	profile, err := s.App.Auth().Profile(context.Background())
	s.Require().NoError(err)
	s.Equal("refresh@example.com", profile.Email)

	s.Equal(1, s.Backend.RefreshCalls())
	s.Equal(1, refreshed)
}

func (s *Suite) TestRevokedRefreshTokenEndsSession() {
	s.Backend.SetAccessTTL(10 * time.Second)
	s.register("revoked@example.com")

	s.Backend.RevokeRefreshTokens()
	s.Backend.ExpireAccessTokens()

	var expired, failed int
	s.App.Tokens().Subscribe(token.EventTokenExpired, func(ev token.Event) { expired++ })
	s.App.Tokens().Subscribe(token.EventAuthenticationFailed, func(ev token.Event) { failed++ })

	_, err := s.App.Auth().Profile(context.Background())

	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.AuthenticationError, apiErr.Kind)
	// The dead bearer token is not re-sent: the request carried no
	// Authorization header at all
	s.Equal("Missing access token", apiErr.Message)

	// A rejected refresh token is terminal, not retried
	s.Equal(1, s.Backend.RefreshCalls())
	s.Equal(1, expired)
	s.Equal(1, failed)
	s.False(s.App.Tokens().IsAuthenticated(context.Background()))
}

func (s *Suite) TestLogout() {
	s.register("logout@example.com")

	var cleared int
	s.App.Tokens().Subscribe(token.EventTokensCleared, func(ev token.Event) { cleared++ })

	s.Require().NoError(s.App.Auth().Logout(context.Background()))

	s.Equal(1, s.Backend.LogoutCalls())
	s.Equal(1, cleared)
	s.False(s.App.Tokens().IsAuthenticated(context.Background()))

	_, err := s.App.Auth().Profile(context.Background())
	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.AuthenticationError, apiErr.Kind)
}

func (s *Suite) TestLoginAfterLogout() {
	s.register("relogin@example.com")
	s.Require().NoError(s.App.Auth().Logout(context.Background()))

	profile, err := s.App.Auth().Login(context.Background(), dto.LoginRequest{
		Email:    "relogin@example.com",
		Password: "Password123",
	})
	s.Require().NoError(err)
	s.Equal("relogin@example.com", profile.Email)
	s.True(s.App.Tokens().IsAuthenticated(context.Background()))
}

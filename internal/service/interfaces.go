package service

import (
	"context"

	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/kypgh/fitbook-client/internal/dto"
)

// AuthService defines the client-side authentication operations
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.ClientProfile, error)
	Login(ctx context.Context, req dto.LoginRequest) (*domain.ClientProfile, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*domain.ClientProfile, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*domain.ClientProfile, error)
}

// BookingService defines class browsing and booking operations
type BookingService interface {
	Brand(ctx context.Context, brandID string) (*domain.Brand, error)
	Classes(ctx context.Context, page int) (api.Page[domain.ClassInfo], error)
	Sessions(ctx context.Context, classID string, page int) (api.Page[domain.Session], error)
	Bookings(ctx context.Context, page int) (api.Page[domain.Booking], error)
	Book(ctx context.Context, sessionID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// BillingService defines payment plan and purchase operations
type BillingService interface {
	SubscriptionPlans(ctx context.Context, page int) (api.Page[domain.SubscriptionPlan], error)
	CreditPlans(ctx context.Context, page int) (api.Page[domain.CreditPlan], error)
	Subscriptions(ctx context.Context) ([]domain.Subscription, error)
	CreditBalances(ctx context.Context) ([]domain.CreditBalance, error)
	PurchaseSubscription(ctx context.Context, planID string) (*domain.Payment, error)
	PurchaseCredits(ctx context.Context, planID string) (*domain.Payment, error)
	Payments(ctx context.Context, page int) (api.Page[domain.Payment], error)
}

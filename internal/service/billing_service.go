package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/kypgh/fitbook-client/internal/dto"
	"go.uber.org/zap"
)

// billingService implements BillingService against the plan and payment
// endpoints
type billingService struct {
	client *api.Client
	logger *zap.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(client *api.Client, logger *zap.Logger) BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &billingService{client: client, logger: logger}
}

// SubscriptionPlans lists available subscription plans
func (s *billingService) SubscriptionPlans(ctx context.Context, page int) (api.Page[domain.SubscriptionPlan], error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/plans/subscriptions", pageQuery(page))
	if apiErr != nil {
		return api.Page[domain.SubscriptionPlan]{}, apiErr
	}

	result, apiErr := api.ProcessPaginatedResponse(body, "plans", api.ArrayOf(api.IsSubscriptionPlanData), api.TransformSubscriptionPlans)
	if apiErr != nil {
		return api.Page[domain.SubscriptionPlan]{}, apiErr
	}
	return result, nil
}

// CreditPlans lists available credit bundle plans
func (s *billingService) CreditPlans(ctx context.Context, page int) (api.Page[domain.CreditPlan], error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/plans/credits", pageQuery(page))
	if apiErr != nil {
		return api.Page[domain.CreditPlan]{}, apiErr
	}

	result, apiErr := api.ProcessPaginatedResponse(body, "plans", api.ArrayOf(api.IsCreditPlanData), api.TransformCreditPlans)
	if apiErr != nil {
		return api.Page[domain.CreditPlan]{}, apiErr
	}
	return result, nil
}

// Subscriptions lists the client's subscriptions
func (s *billingService) Subscriptions(ctx context.Context) ([]domain.Subscription, error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/subscriptions", nil)
	if apiErr != nil {
		return nil, apiErr
	}

	subs, apiErr := api.ProcessResponse(body, api.IsObject, func(m map[string]any) []domain.Subscription {
		return api.TransformSubscriptions(m["subscriptions"])
	})
	if apiErr != nil {
		return nil, apiErr
	}
	return subs, nil
}

// CreditBalances lists the client's remaining credits per brand
func (s *billingService) CreditBalances(ctx context.Context) ([]domain.CreditBalance, error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/credits", nil)
	if apiErr != nil {
		return nil, apiErr
	}

	balances, apiErr := api.ProcessResponse(body, api.IsObject, func(m map[string]any) []domain.CreditBalance {
		return api.TransformCreditBalances(m["balances"])
	})
	if apiErr != nil {
		return nil, apiErr
	}
	return balances, nil
}

// PurchaseSubscription starts a subscription on the given plan
func (s *billingService) PurchaseSubscription(ctx context.Context, planID string) (*domain.Payment, error) {
	return s.purchase(ctx, "/api/v1/payments/subscriptions", planID)
}

// PurchaseCredits purchases the given credit bundle plan
func (s *billingService) PurchaseCredits(ctx context.Context, planID string) (*domain.Payment, error) {
	return s.purchase(ctx, "/api/v1/payments/credits", planID)
}

func (s *billingService) purchase(ctx context.Context, path, planID string) (*domain.Payment, error) {
	req := dto.PurchaseRequest{
		PlanID:         planID,
		IdempotencyKey: uuid.NewString(),
	}

	body, apiErr := s.client.Post(ctx, path, req)
	if apiErr != nil {
		return nil, apiErr
	}

	payment, apiErr := api.ProcessResponse(body, api.IsPaymentData, api.TransformPayment)
	if apiErr != nil {
		return nil, apiErr
	}

	s.logger.Info("purchase completed",
		zap.String("plan_id", planID),
		zap.String("payment_id", payment.ID),
		zap.String("status", payment.Status),
	)
	return &payment, nil
}

// Payments lists the client's payment history
func (s *billingService) Payments(ctx context.Context, page int) (api.Page[domain.Payment], error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/payments", pageQuery(page))
	if apiErr != nil {
		return api.Page[domain.Payment]{}, apiErr
	}

	result, apiErr := api.ProcessPaginatedResponse(body, "payments", api.ArrayOf(api.IsPaymentData), api.TransformPayments)
	if apiErr != nil {
		return api.Page[domain.Payment]{}, apiErr
	}
	return result, nil
}

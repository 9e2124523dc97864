package acceptance

import "context"

func (s *Suite) TestSubscriptionPlansAndPurchase() {
	s.register("subscribe@example.com")
	ctx := context.Background()

	plans, err := s.App.Billing().SubscriptionPlans(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(plans.Items, 2)

	unlimited := plans.Items[0]
	s.Equal("plan-sub-1", unlimited.ID)
	s.Equal("EUR", unlimited.Currency)
	s.Equal("monthly", unlimited.BillingPeriod)
	s.True(unlimited.AllowAllClasses)
	s.NotNil(unlimited.IncludedClasses)

	s.Equal([]string{"cls-1"}, plans.Items[1].IncludedClasses)

	payment, err := s.App.Billing().PurchaseSubscription(ctx, unlimited.ID)
	s.Require().NoError(err)
	s.NotEmpty(payment.ID)
	s.Equal("completed", payment.Status)
	s.Equal("subscription", payment.Type)
	s.InDelta(49.99, payment.Amount, 0.001)
}

func (s *Suite) TestCreditPlansAndPurchase() {
	s.register("credits@example.com")
	ctx := context.Background()

	plans, err := s.App.Billing().CreditPlans(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(plans.Items, 1)
	s.Equal(10, plans.Items[0].CreditAmount)
	s.Equal(90, plans.Items[0].ValidityDays)

	payment, err := s.App.Billing().PurchaseCredits(ctx, plans.Items[0].ID)
	s.Require().NoError(err)
	s.Equal("credits", payment.Type)

	history, err := s.App.Billing().Payments(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(history.Items, 1)
	s.Equal(payment.ID, history.Items[0].ID)
}

func (s *Suite) TestSubscriptionsAndBalances() {
	s.register("account@example.com")
	ctx := context.Background()

	subs, err := s.App.Billing().Subscriptions(ctx)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Equal("plan-sub-1", subs[0].PlanID)
	s.Equal("Unlimited Monthly", subs[0].PlanName)
	s.True(subs[0].AutoRenew)

	balances, err := s.App.Billing().CreditBalances(ctx)
	s.Require().NoError(err)
	s.Require().Len(balances, 1)
	s.Equal(7, balances[0].AvailableCredits)
	s.Equal(10, balances[0].TotalPurchased)
}

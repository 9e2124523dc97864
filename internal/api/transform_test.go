package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformBrand(t *testing.T) {
	brand := TransformBrand(map[string]any{
		"_id":     "b1",
		"name":    "FitBook Studio",
		"logo":    "https://cdn.example.com/b1.png",
		"address": "12 Harbour St",
		"email":   "hello@example.com",
	})

	assert.Equal(t, "b1", brand.ID)
	assert.Equal(t, "FitBook Studio", brand.Name)
	assert.Equal(t, "https://cdn.example.com/b1.png", brand.LogoURL)
	assert.Equal(t, "12 Harbour St", brand.Address)
	assert.Equal(t, "active", brand.Status)

	assert.True(t, IsBrandData(map[string]any{"_id": "b1", "name": "X"}))
	assert.False(t, IsBrandData(map[string]any{"name": "X"}))
}

func TestTransformSubscriptionPlan_Defaults(t *testing.T) {
	// An object missing every optional field still yields a fully
	// populated entity
	plan := TransformSubscriptionPlan(map[string]any{"_id": "p1", "name": "Monthly"})

	assert.Equal(t, "p1", plan.ID)
	assert.Equal(t, "Monthly", plan.Name)
	assert.Equal(t, "", plan.Description)
	assert.Equal(t, float64(0), plan.Price)
	assert.Equal(t, "EUR", plan.Currency)
	assert.Equal(t, "monthly", plan.BillingPeriod)
	assert.NotNil(t, plan.IncludedClasses)
	assert.Empty(t, plan.IncludedClasses)
	assert.False(t, plan.AllowAllClasses)
	assert.Equal(t, "active", plan.Status)
}

func TestTransformSubscriptionPlan_FullObject(t *testing.T) {
	plan := TransformSubscriptionPlan(map[string]any{
		"_id":             "p2",
		"name":            "All Access",
		"price":           49.99,
		"currency":        "USD",
		"billingPeriod":   "yearly",
		"includedClasses": []any{"cl1", "cl2"},
		"allowAllClasses": true,
		"status":          "archived",
	})

	assert.Equal(t, 49.99, plan.Price)
	assert.Equal(t, "USD", plan.Currency)
	assert.Equal(t, "yearly", plan.BillingPeriod)
	assert.Equal(t, []string{"cl1", "cl2"}, plan.IncludedClasses)
	assert.True(t, plan.AllowAllClasses)
	assert.Equal(t, "archived", plan.Status)
}

func TestTransformClientProfile_WrongTypesFallBack(t *testing.T) {
	profile := TransformClientProfile(map[string]any{
		"id":        "c1",
		"email":     "a@b.co",
		"firstName": 42.0,
		"status":    false,
		"createdAt": "not a timestamp",
	})

	assert.Equal(t, "c1", profile.ID)
	assert.Equal(t, "", profile.FirstName)
	assert.Equal(t, "active", profile.Status)
	assert.True(t, profile.CreatedAt.IsZero())
}

func TestTransformClientProfile_IDFallback(t *testing.T) {
	assert.Equal(t, "mongo-id", TransformClientProfile(map[string]any{"_id": "mongo-id"}).ID)
	assert.Equal(t, "plain-id", TransformClientProfile(map[string]any{"id": "plain-id"}).ID)
}

func TestTransformSession_Timestamps(t *testing.T) {
	session := TransformSession(map[string]any{
		"_id":      "s1",
		"dateTime": "2026-03-01T18:00:00Z",
	})

	expected := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	assert.True(t, session.StartsAt.Equal(expected))
	assert.Equal(t, "scheduled", session.Status)
}

func TestTransformSession_UnixTimestamp(t *testing.T) {
	session := TransformSession(map[string]any{
		"_id":      "s1",
		"dateTime": float64(1767225600),
	})
	assert.Equal(t, int64(1767225600), session.StartsAt.Unix())
}

func TestTransformSubscription_NestedPlan(t *testing.T) {
	sub := TransformSubscription(map[string]any{
		"_id": "sub1",
		"subscriptionPlan": map[string]any{
			"_id":  "p1",
			"name": "Monthly",
		},
		"autoRenew": true,
	})

	assert.Equal(t, "p1", sub.PlanID)
	assert.Equal(t, "Monthly", sub.PlanName)
	assert.True(t, sub.AutoRenew)

	flat := TransformSubscription(map[string]any{"_id": "sub2", "subscriptionPlan": "p9"})
	assert.Equal(t, "p9", flat.PlanID)
	assert.Equal(t, "", flat.PlanName)
}

func TestTransformTokenPair(t *testing.T) {
	pair := TransformTokenPair(map[string]any{
		"accessToken":  "acc",
		"refreshToken": "ref",
		"expiresAt":    "2026-01-01T00:00:00Z",
	})

	assert.Equal(t, "acc", pair.AccessToken)
	assert.Equal(t, "ref", pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, 2026, pair.ExpiresAt.Year())
}

func TestTransformTokenPair_RelativeExpiry(t *testing.T) {
	before := time.Now()
	pair := TransformTokenPair(map[string]any{
		"accessToken":  "acc",
		"refreshToken": "ref",
		"expiresIn":    900.0,
	})

	require.False(t, pair.ExpiresAt.IsZero())
	assert.True(t, pair.ExpiresAt.After(before.Add(14*time.Minute)))
	assert.True(t, pair.ExpiresAt.Before(before.Add(16*time.Minute)))
}

func TestTransformList_NonArrayInput(t *testing.T) {
	assert.Empty(t, TransformClassInfos(nil))
	assert.Empty(t, TransformClassInfos("not an array"))
	assert.Empty(t, TransformClassInfos(map[string]any{}))

	items := TransformClassInfos([]any{
		map[string]any{"_id": "cl1", "name": "Yoga"},
		"garbage element",
		map[string]any{"_id": "cl2", "name": "HIIT"},
	})
	assert.Len(t, items, 2)
}

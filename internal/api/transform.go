package api

import (
	"time"

	"github.com/kypgh/fitbook-client/internal/domain"
)

// Transformers project arbitrary backend JSON objects into fully-populated
// domain entities. Missing or mistyped fields fall back to defaults so
// downstream code never needs nil checks. Transformers never panic on any
// input.

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func str(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

func num(m map[string]any, key string, def float64) float64 {
	if f, ok := m[key].(float64); ok {
		return f
	}
	return def
}

func integer(m map[string]any, key string, def int) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return def
}

func boolean(m map[string]any, key string, def bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}

func items(m map[string]any, key string) []any {
	if a, ok := m[key].([]any); ok {
		return a
	}
	return nil
}

func stringList(m map[string]any, key string) []string {
	raw := items(m, key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// timestamp parses an RFC3339 string or a unix-seconds number, returning
// the zero time on anything else
func timestamp(m map[string]any, key string) time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	case float64:
		if v > 0 {
			return time.Unix(int64(v), 0).UTC()
		}
	}
	return time.Time{}
}

// entityID reads "id" with a fallback to the Mongo-style "_id"
func entityID(m map[string]any) string {
	if s := str(m, "id", ""); s != "" {
		return s
	}
	return str(m, "_id", "")
}

// TransformTokenPair projects a backend token object into a TokenPair.
// Absolute expiry is preferred; a relative expiresIn is converted against
// the local clock when that is all the backend sends.
func TransformTokenPair(m map[string]any) domain.TokenPair {
	pair := domain.TokenPair{
		AccessToken:      str(m, "accessToken", ""),
		RefreshToken:     str(m, "refreshToken", ""),
		TokenType:        str(m, "tokenType", "Bearer"),
		ExpiresAt:        timestamp(m, "expiresAt"),
		RefreshExpiresAt: timestamp(m, "refreshExpiresAt"),
	}
	if pair.ExpiresAt.IsZero() {
		if sec := num(m, "expiresIn", 0); sec > 0 {
			pair.ExpiresAt = time.Now().Add(time.Duration(sec) * time.Second)
		}
	}
	return pair
}

// TransformClientProfile projects a backend client object into a ClientProfile
func TransformClientProfile(m map[string]any) domain.ClientProfile {
	return domain.ClientProfile{
		ID:           entityID(m),
		Email:        str(m, "email", ""),
		FirstName:    str(m, "firstName", ""),
		LastName:     str(m, "lastName", ""),
		Phone:        str(m, "phone", ""),
		ProfileImage: str(m, "profileImage", ""),
		Status:       str(m, "status", "active"),
		BrandID:      str(m, "brand", ""),
		CreatedAt:    timestamp(m, "createdAt"),
		UpdatedAt:    timestamp(m, "updatedAt"),
	}
}

// TransformBrand projects a backend brand object into a Brand
func TransformBrand(m map[string]any) domain.Brand {
	return domain.Brand{
		ID:      entityID(m),
		Name:    str(m, "name", ""),
		LogoURL: str(m, "logo", ""),
		Address: str(m, "address", ""),
		Phone:   str(m, "phone", ""),
		Email:   str(m, "email", ""),
		Status:  str(m, "status", "active"),
	}
}

// TransformClassInfo projects a backend class object into a ClassInfo
func TransformClassInfo(m map[string]any) domain.ClassInfo {
	return domain.ClassInfo{
		ID:              entityID(m),
		Name:            str(m, "name", ""),
		Description:     str(m, "description", ""),
		BrandID:         str(m, "brand", ""),
		Difficulty:      str(m, "difficulty", "beginner"),
		Capacity:        integer(m, "capacity", 0),
		DurationMinutes: integer(m, "duration", 0),
		CancellationHrs: integer(m, "cancellationPolicy", 0),
		Status:          str(m, "status", "active"),
	}
}

// TransformSession projects a backend session object into a Session
func TransformSession(m map[string]any) domain.Session {
	return domain.Session{
		ID:             entityID(m),
		ClassID:        str(m, "class", ""),
		ClassName:      str(m, "className", ""),
		Instructor:     str(m, "instructor", ""),
		StartsAt:       timestamp(m, "dateTime"),
		Capacity:       integer(m, "capacity", 0),
		AvailableSpots: integer(m, "availableSpots", 0),
		Status:         str(m, "status", "scheduled"),
	}
}

// TransformBooking projects a backend booking object into a Booking
func TransformBooking(m map[string]any) domain.Booking {
	return domain.Booking{
		ID:        entityID(m),
		SessionID: str(m, "session", ""),
		ClientID:  str(m, "client", ""),
		Status:    str(m, "status", "confirmed"),
		BookedAt:  timestamp(m, "bookingDate"),
	}
}

// TransformSubscriptionPlan projects a backend plan object into a SubscriptionPlan
func TransformSubscriptionPlan(m map[string]any) domain.SubscriptionPlan {
	return domain.SubscriptionPlan{
		ID:              entityID(m),
		Name:            str(m, "name", ""),
		Description:     str(m, "description", ""),
		BrandID:         str(m, "brand", ""),
		Price:           num(m, "price", 0),
		Currency:        str(m, "currency", "EUR"),
		BillingPeriod:   str(m, "billingPeriod", "monthly"),
		IncludedClasses: stringList(m, "includedClasses"),
		AllowAllClasses: boolean(m, "allowAllClasses", false),
		Status:          str(m, "status", "active"),
	}
}

// TransformCreditPlan projects a backend credit plan object into a CreditPlan
func TransformCreditPlan(m map[string]any) domain.CreditPlan {
	return domain.CreditPlan{
		ID:           entityID(m),
		Name:         str(m, "name", ""),
		Description:  str(m, "description", ""),
		BrandID:      str(m, "brand", ""),
		Price:        num(m, "price", 0),
		Currency:     str(m, "currency", "EUR"),
		CreditAmount: integer(m, "creditAmount", 0),
		ValidityDays: integer(m, "validityPeriod", 0),
		Status:       str(m, "status", "active"),
	}
}

// TransformSubscription projects a backend subscription object into a Subscription
func TransformSubscription(m map[string]any) domain.Subscription {
	plan := ""
	planName := ""
	switch v := m["subscriptionPlan"].(type) {
	case string:
		plan = v
	case map[string]any:
		plan = entityID(v)
		planName = str(v, "name", "")
	}
	return domain.Subscription{
		ID:              entityID(m),
		PlanID:          plan,
		PlanName:        planName,
		Status:          str(m, "status", "active"),
		StartDate:       timestamp(m, "startDate"),
		EndDate:         timestamp(m, "endDate"),
		NextBillingDate: timestamp(m, "nextBillingDate"),
		AutoRenew:       boolean(m, "autoRenew", false),
	}
}

// TransformCreditBalance projects a backend balance object into a CreditBalance
func TransformCreditBalance(m map[string]any) domain.CreditBalance {
	return domain.CreditBalance{
		ID:               entityID(m),
		BrandID:          str(m, "brand", ""),
		AvailableCredits: integer(m, "availableCredits", 0),
		TotalPurchased:   integer(m, "totalCredits", 0),
		ExpiresAt:        timestamp(m, "expiresAt"),
	}
}

// TransformPayment projects a backend payment object into a Payment
func TransformPayment(m map[string]any) domain.Payment {
	return domain.Payment{
		ID:            entityID(m),
		Amount:        num(m, "amount", 0),
		Currency:      str(m, "currency", "EUR"),
		Status:        str(m, "status", "pending"),
		Type:          str(m, "type", ""),
		TransactionID: str(m, "transactionId", ""),
		CreatedAt:     timestamp(m, "createdAt"),
	}
}

// transformList maps a scalar transformer over an arbitrary value. A
// missing or non-array input yields an empty list, never an error.
func transformList[T any](v any, transform func(map[string]any) T) []T {
	raw, ok := v.([]any)
	if !ok {
		return []T{}
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		if m, ok := asObject(item); ok {
			out = append(out, transform(m))
		}
	}
	return out
}

// TransformClassInfos maps TransformClassInfo over an arbitrary array value
func TransformClassInfos(v any) []domain.ClassInfo {
	return transformList(v, TransformClassInfo)
}

// TransformSessions maps TransformSession over an arbitrary array value
func TransformSessions(v any) []domain.Session {
	return transformList(v, TransformSession)
}

// TransformBookings maps TransformBooking over an arbitrary array value
func TransformBookings(v any) []domain.Booking {
	return transformList(v, TransformBooking)
}

// TransformSubscriptionPlans maps TransformSubscriptionPlan over an arbitrary array value
func TransformSubscriptionPlans(v any) []domain.SubscriptionPlan {
	return transformList(v, TransformSubscriptionPlan)
}

// TransformCreditPlans maps TransformCreditPlan over an arbitrary array value
func TransformCreditPlans(v any) []domain.CreditPlan {
	return transformList(v, TransformCreditPlan)
}

// TransformSubscriptions maps TransformSubscription over an arbitrary array value
func TransformSubscriptions(v any) []domain.Subscription {
	return transformList(v, TransformSubscription)
}

// TransformCreditBalances maps TransformCreditBalance over an arbitrary array value
func TransformCreditBalances(v any) []domain.CreditBalance {
	return transformList(v, TransformCreditBalance)
}

// TransformPayments maps TransformPayment over an arbitrary array value
func TransformPayments(v any) []domain.Payment {
	return transformList(v, TransformPayment)
}

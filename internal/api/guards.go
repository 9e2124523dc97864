package api

// Guard is a predicate validating that an untyped value conforms to an
// expected structure before any transformer touches it
type Guard func(v any) bool

// IsObject accepts any JSON object
func IsObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsArray accepts any JSON array
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// HasStringField returns a guard requiring an object with the given
// non-empty string fields. Field alternatives may be given as
// "a|b" meaning either key satisfies the requirement.
func HasStringField(fields ...string) Guard {
	return func(v any) bool {
		m, ok := v.(map[string]any)
		if !ok {
			return false
		}
		for _, f := range fields {
			if !hasAnyStringKey(m, f) {
				return false
			}
		}
		return true
	}
}

func hasAnyStringKey(m map[string]any, field string) bool {
	start := 0
	for i := 0; i <= len(field); i++ {
		if i == len(field) || field[i] == '|' {
			key := field[start:i]
			if s, ok := m[key].(string); ok && s != "" {
				return true
			}
			start = i + 1
		}
	}
	return false
}

// ArrayOf returns a guard accepting an array whose object elements all
// satisfy the element guard. Non-object elements are rejected.
func ArrayOf(elem Guard) Guard {
	return func(v any) bool {
		raw, ok := v.([]any)
		if !ok {
			return false
		}
		for _, item := range raw {
			if !elem(item) {
				return false
			}
		}
		return true
	}
}

// Entity guards. These check only the identifying fields; everything else
// is defaulted by the transformers.
var (
	IsTokenPairData        = HasStringField("accessToken", "refreshToken")
	IsClientProfileData    = HasStringField("id|_id", "email")
	IsBrandData            = HasStringField("id|_id", "name")
	IsClassInfoData        = HasStringField("id|_id", "name")
	IsSessionData          = HasStringField("id|_id")
	IsBookingData          = HasStringField("id|_id")
	IsSubscriptionPlanData = HasStringField("id|_id", "name")
	IsCreditPlanData       = HasStringField("id|_id", "name")
	IsSubscriptionData     = HasStringField("id|_id")
	IsCreditBalanceData    = HasStringField("id|_id")
	IsPaymentData          = HasStringField("id|_id")
)

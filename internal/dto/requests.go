package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId,omitempty"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// BookingRequest represents a session booking request. The idempotency
// key lets the backend deduplicate a retried booking.
type BookingRequest struct {
	SessionID      string `json:"sessionId"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// PurchaseRequest represents a plan purchase request
type PurchaseRequest struct {
	PlanID          string `json:"planId"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
	IdempotencyKey  string `json:"idempotencyKey"`
}

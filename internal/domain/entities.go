package domain

import "time"

// ClientProfile represents the authenticated client's profile
type ClientProfile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	ProfileImage string    `json:"profile_image"`
	Status       string    `json:"status"`
	BrandID      string    `json:"brand_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Brand represents a fitness studio brand
type Brand struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Status  string `json:"status"`
}

// ClassInfo represents a bookable class offered by a brand
type ClassInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	BrandID         string `json:"brand_id"`
	Difficulty      string `json:"difficulty"`
	Capacity        int    `json:"capacity"`
	DurationMinutes int    `json:"duration_minutes"`
	CancellationHrs int    `json:"cancellation_hours"`
	Status          string `json:"status"`
}

// Session represents a scheduled occurrence of a class
type Session struct {
	ID             string    `json:"id"`
	ClassID        string    `json:"class_id"`
	ClassName      string    `json:"class_name"`
	Instructor     string    `json:"instructor"`
	StartsAt       time.Time `json:"starts_at"`
	Capacity       int       `json:"capacity"`
	AvailableSpots int       `json:"available_spots"`
	Status         string    `json:"status"`
}

// Booking represents a client's reservation on a session
type Booking struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ClientID  string    `json:"client_id"`
	Status    string    `json:"status"`
	BookedAt  time.Time `json:"booked_at"`
}

// SubscriptionPlan represents a recurring payment plan
type SubscriptionPlan struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	BrandID         string   `json:"brand_id"`
	Price           float64  `json:"price"`
	Currency        string   `json:"currency"`
	BillingPeriod   string   `json:"billing_period"`
	IncludedClasses []string `json:"included_classes"`
	AllowAllClasses bool     `json:"allow_all_classes"`
	Status          string   `json:"status"`
}

// CreditPlan represents a one-off credit bundle purchase plan
type CreditPlan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	BrandID      string  `json:"brand_id"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	CreditAmount int     `json:"credit_amount"`
	ValidityDays int     `json:"validity_days"`
	Status       string  `json:"status"`
}

// Subscription represents a client's active subscription to a plan
type Subscription struct {
	ID              string    `json:"id"`
	PlanID          string    `json:"plan_id"`
	PlanName        string    `json:"plan_name"`
	Status          string    `json:"status"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	NextBillingDate time.Time `json:"next_billing_date"`
	AutoRenew       bool      `json:"auto_renew"`
}

// CreditBalance represents a client's remaining credits with a brand
type CreditBalance struct {
	ID               string    `json:"id"`
	BrandID          string    `json:"brand_id"`
	AvailableCredits int       `json:"available_credits"`
	TotalPurchased   int       `json:"total_purchased"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// Payment represents a completed or pending payment record
type Payment struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

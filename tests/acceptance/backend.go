package acceptance

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// stubBackend is an in-memory rendition of the booking API. It speaks the
// production envelope: {"success": true, "data": ...} on success and
// {"success": false, "error": {...}} on failure, with camelCase keys and
// Mongo-style "_id" identifiers.
type stubBackend struct {
	mu sync.Mutex

	accessTTL time.Duration

	clients       map[string]*stubClient
	accessTokens  map[string]*stubSession
	refreshTokens map[string]string
	bookings      map[string]gin.H
	payments      []gin.H

	refreshCalls int
	logoutCalls  int
}

type stubClient struct {
	id        string
	email     string
	password  string
	firstName string
	lastName  string
	phone     string
}

type stubSession struct {
	clientID  string
	expiresAt time.Time
}

func newStubBackend() *stubBackend {
	b := &stubBackend{}
	b.Reset()
	return b
}

// Reset restores pristine state between tests
func (b *stubBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessTTL = 15 * time.Minute
	b.clients = make(map[string]*stubClient)
	b.accessTokens = make(map[string]*stubSession)
	b.refreshTokens = make(map[string]string)
	b.bookings = make(map[string]gin.H)
	b.payments = nil
	b.refreshCalls = 0
	b.logoutCalls = 0
}

// SetAccessTTL controls the lifetime of subsequently issued access tokens
func (b *stubBackend) SetAccessTTL(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessTTL = d
}

// RevokeRefreshTokens invalidates every outstanding refresh token
func (b *stubBackend) RevokeRefreshTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshTokens = make(map[string]string)
}

// ExpireAccessTokens immediately expires every outstanding access token
func (b *stubBackend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sess := range b.accessTokens {
		sess.expiresAt = time.Now().Add(-time.Minute)
	}
}

func (b *stubBackend) RefreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func (b *stubBackend) LogoutCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.logoutCalls
}

func (b *stubBackend) router() *gin.Engine {
	r := gin.New()

	v1 := r.Group("/api/v1")
	v1.POST("/auth/register", b.handleRegister)
	v1.POST("/auth/login", b.handleLogin)
	v1.POST("/auth/refresh", b.handleRefresh)

	authed := v1.Group("", b.requireAuth())
	authed.POST("/auth/logout", b.handleLogout)
	authed.GET("/auth/profile", b.handleProfile)
	authed.PUT("/auth/profile", b.handleUpdateProfile)
	authed.GET("/brands/:id", b.handleBrand)
	authed.GET("/classes", b.handleClasses)
	authed.GET("/classes/:id/sessions", b.handleSessions)
	authed.GET("/bookings", b.handleBookings)
	authed.POST("/bookings", b.handleBook)
	authed.DELETE("/bookings/:id", b.handleCancelBooking)
	authed.GET("/plans/subscriptions", b.handleSubscriptionPlans)
	authed.GET("/plans/credits", b.handleCreditPlans)
	authed.GET("/subscriptions", b.handleSubscriptions)
	authed.GET("/credits", b.handleCreditBalances)
	authed.GET("/payments", b.handlePayments)
	authed.POST("/payments/subscriptions", b.handlePurchaseSubscription)
	authed.POST("/payments/credits", b.handlePurchaseCredits)

	return r
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondErr(c *gin.Context, status int, message, code string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"message": message, "code": code},
	})
}

func (b *stubBackend) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			respondErr(c, http.StatusUnauthorized, "Missing access token", "UNAUTHORIZED")
			c.Abort()
			return
		}

		b.mu.Lock()
		sess, found := b.accessTokens[token]
		b.mu.Unlock()

		if !found || time.Now().After(sess.expiresAt) {
			respondErr(c, http.StatusUnauthorized, "Invalid or expired token", "TOKEN_EXPIRED")
			c.Abort()
			return
		}

		c.Set("clientID", sess.clientID)
		c.Next()
	}
}

func (b *stubBackend) issueTokensLocked(clientID string) gin.H {
	access := uuid.NewString()
	refresh := uuid.NewString()
	now := time.Now()

	b.accessTokens[access] = &stubSession{clientID: clientID, expiresAt: now.Add(b.accessTTL)}
	b.refreshTokens[refresh] = clientID

	return gin.H{
		"accessToken":      access,
		"refreshToken":     refresh,
		"tokenType":        "Bearer",
		"expiresAt":        now.Add(b.accessTTL).Format(time.RFC3339),
		"refreshExpiresAt": now.Add(24 * time.Hour).Format(time.RFC3339),
	}
}

func clientJSON(cl *stubClient) gin.H {
	return gin.H{
		"_id":       cl.id,
		"email":     cl.email,
		"firstName": cl.firstName,
		"lastName":  cl.lastName,
		"phone":     cl.phone,
		"status":    "active",
		"createdAt": time.Now().Format(time.RFC3339),
	}
}

func (b *stubBackend) handleRegister(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.clients[req.Email]; exists {
		respondErr(c, http.StatusConflict, "Email already registered", "EMAIL_EXISTS")
		return
	}

	cl := &stubClient{
		id:        uuid.NewString(),
		email:     req.Email,
		password:  req.Password,
		firstName: req.FirstName,
		lastName:  req.LastName,
	}
	b.clients[req.Email] = cl

	respondOK(c, http.StatusCreated, gin.H{
		"client": clientJSON(cl),
		"tokens": b.issueTokensLocked(cl.id),
	})
}

func (b *stubBackend) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cl, exists := b.clients[req.Email]
	if !exists || cl.password != req.Password {
		respondErr(c, http.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"client": clientJSON(cl),
		"tokens": b.issueTokensLocked(cl.id),
	})
}

func (b *stubBackend) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshCalls++

	clientID, valid := b.refreshTokens[req.RefreshToken]
	if !valid {
		respondErr(c, http.StatusUnauthorized, "Invalid refresh token", "INVALID_REFRESH_TOKEN")
		return
	}

	// Rotation: the presented token is spent
	delete(b.refreshTokens, req.RefreshToken)

	respondOK(c, http.StatusOK, b.issueTokensLocked(clientID))
}

func (b *stubBackend) handleLogout(c *gin.Context) {
	b.mu.Lock()
	b.logoutCalls++
	b.mu.Unlock()
	respondOK(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (b *stubBackend) findClientLocked(id string) *stubClient {
	for _, cl := range b.clients {
		if cl.id == id {
			return cl
		}
	}
	return nil
}

func (b *stubBackend) handleProfile(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cl := b.findClientLocked(c.GetString("clientID"))
	if cl == nil {
		respondErr(c, http.StatusNotFound, "Client not found", "NOT_FOUND")
		return
	}
	respondOK(c, http.StatusOK, clientJSON(cl))
}

func (b *stubBackend) handleUpdateProfile(c *gin.Context) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "Invalid request body", "BAD_REQUEST")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cl := b.findClientLocked(c.GetString("clientID"))
	if cl == nil {
		respondErr(c, http.StatusNotFound, "Client not found", "NOT_FOUND")
		return
	}

	if req.FirstName != "" {
		cl.firstName = req.FirstName
	}
	if req.LastName != "" {
		cl.lastName = req.LastName
	}
	if req.Phone != "" {
		cl.phone = req.Phone
	}
	respondOK(c, http.StatusOK, clientJSON(cl))
}

func paginate(itemsKey string, all []gin.H, pageStr string, perPage int) gin.H {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	total := len(all)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return gin.H{
		itemsKey: all[start:end],
		"pagination": gin.H{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   total,
			"itemsPerPage": perPage,
		},
	}
}

func (b *stubBackend) handleBrand(c *gin.Context) {
	if c.Param("id") != "brand-1" {
		respondErr(c, http.StatusNotFound, "Brand not found", "NOT_FOUND")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"_id":     "brand-1",
		"name":    "FitBook Studio",
		"logo":    "https://cdn.fitbook.app/brands/brand-1.png",
		"address": "12 Harbour St, Limassol",
		"phone":   "+35725123456",
		"email":   "hello@fitbook.app",
		"status":  "active",
	})
}

func catalogClasses() []gin.H {
	return []gin.H{
		{
			"_id":                "cls-1",
			"name":               "Morning Yoga",
			"description":        "Sunrise vinyasa flow",
			"brand":              "brand-1",
			"difficulty":         "beginner",
			"capacity":           20,
			"duration":           60,
			"cancellationPolicy": 24,
			"status":             "active",
		},
		{
			"id":                 "cls-2",
			"name":               "HIIT Blast",
			"description":        "High intensity intervals",
			"brand":              "brand-1",
			"difficulty":         "advanced",
			"capacity":           15,
			"duration":           45,
			"cancellationPolicy": 12,
			"status":             "active",
		},
		{
			"_id":         "cls-3",
			"name":        "Pilates Core",
			"description": "Mat pilates",
			"brand":       "brand-1",
			"difficulty":  "intermediate",
			"capacity":    12,
			"duration":    50,
			"status":      "active",
		},
	}
}

func catalogSessions(classID string) []gin.H {
	return []gin.H{
		{
			"_id":            "ses-" + classID + "-1",
			"class":          classID,
			"className":      "Morning Yoga",
			"instructor":     "Alex Kim",
			"dateTime":       time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			"capacity":       20,
			"availableSpots": 5,
			"status":         "scheduled",
		},
		{
			"_id":            "ses-" + classID + "-2",
			"class":          classID,
			"className":      "Morning Yoga",
			"instructor":     "Alex Kim",
			"dateTime":       time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			"capacity":       20,
			"availableSpots": 20,
			"status":         "scheduled",
		},
	}
}

func (b *stubBackend) handleClasses(c *gin.Context) {
	respondOK(c, http.StatusOK, paginate("classes", catalogClasses(), c.Query("page"), 2))
}

func (b *stubBackend) handleSessions(c *gin.Context) {
	respondOK(c, http.StatusOK, paginate("sessions", catalogSessions(c.Param("id")), c.Query("page"), 10))
}

func (b *stubBackend) handleBookings(c *gin.Context) {
	b.mu.Lock()
	all := make([]gin.H, 0, len(b.bookings))
	clientID := c.GetString("clientID")
	for _, bk := range b.bookings {
		if bk["client"] == clientID {
			all = append(all, bk)
		}
	}
	b.mu.Unlock()

	respondOK(c, http.StatusOK, paginate("bookings", all, c.Query("page"), 10))
}

func (b *stubBackend) handleBook(c *gin.Context) {
	var req struct {
		SessionID      string `json:"sessionId"`
		IdempotencyKey string `json:"idempotencyKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		respondErr(c, http.StatusBadRequest, "sessionId is required", "VALIDATION_ERROR")
		return
	}

	booking := gin.H{
		"_id":         uuid.NewString(),
		"session":     req.SessionID,
		"client":      c.GetString("clientID"),
		"status":      "confirmed",
		"bookingDate": time.Now().Format(time.RFC3339),
	}

	b.mu.Lock()
	b.bookings[booking["_id"].(string)] = booking
	b.mu.Unlock()

	respondOK(c, http.StatusCreated, booking)
}

func (b *stubBackend) handleCancelBooking(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, exists := b.bookings[c.Param("id")]
	if !exists {
		respondErr(c, http.StatusNotFound, "Booking not found", "NOT_FOUND")
		return
	}

	booking["status"] = "cancelled"
	respondOK(c, http.StatusOK, booking)
}

func catalogSubscriptionPlans() []gin.H {
	return []gin.H{
		{
			"_id":             "plan-sub-1",
			"name":            "Unlimited Monthly",
			"description":     "All classes, all the time",
			"brand":           "brand-1",
			"price":           49.99,
			"currency":        "EUR",
			"billingPeriod":   "monthly",
			"allowAllClasses": true,
			"status":          "active",
		},
		{
			"_id":             "plan-sub-2",
			"name":            "Yoga Only",
			"brand":           "brand-1",
			"price":           29.99,
			"currency":        "EUR",
			"billingPeriod":   "monthly",
			"includedClasses": []string{"cls-1"},
			"status":          "active",
		},
	}
}

func catalogCreditPlans() []gin.H {
	return []gin.H{
		{
			"_id":            "plan-cred-1",
			"name":           "10 Credit Pack",
			"brand":          "brand-1",
			"price":          30.0,
			"currency":       "EUR",
			"creditAmount":   10,
			"validityPeriod": 90,
			"status":         "active",
		},
	}
}

func (b *stubBackend) handleSubscriptionPlans(c *gin.Context) {
	respondOK(c, http.StatusOK, paginate("plans", catalogSubscriptionPlans(), c.Query("page"), 10))
}

func (b *stubBackend) handleCreditPlans(c *gin.Context) {
	respondOK(c, http.StatusOK, paginate("plans", catalogCreditPlans(), c.Query("page"), 10))
}

func (b *stubBackend) handleSubscriptions(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"subscriptions": []gin.H{
			{
				"_id": "sub-1",
				"subscriptionPlan": gin.H{
					"_id":  "plan-sub-1",
					"name": "Unlimited Monthly",
				},
				"status":          "active",
				"startDate":       time.Now().Add(-30 * 24 * time.Hour).Format(time.RFC3339),
				"nextBillingDate": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
				"autoRenew":       true,
			},
		},
	})
}

func (b *stubBackend) handleCreditBalances(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"balances": []gin.H{
			{
				"_id":              "bal-1",
				"brand":            "brand-1",
				"availableCredits": 7,
				"totalCredits":     10,
				"expiresAt":        time.Now().Add(60 * 24 * time.Hour).Format(time.RFC3339),
			},
		},
	})
}

func (b *stubBackend) handlePayments(c *gin.Context) {
	b.mu.Lock()
	all := make([]gin.H, len(b.payments))
	copy(all, b.payments)
	b.mu.Unlock()

	respondOK(c, http.StatusOK, paginate("payments", all, c.Query("page"), 10))
}

func (b *stubBackend) handlePurchaseSubscription(c *gin.Context) {
	b.handlePurchase(c, "subscription", catalogSubscriptionPlans())
}

func (b *stubBackend) handlePurchaseCredits(c *gin.Context) {
	b.handlePurchase(c, "credits", catalogCreditPlans())
}

func (b *stubBackend) handlePurchase(c *gin.Context, paymentType string, plans []gin.H) {
	var req struct {
		PlanID         string `json:"planId"`
		IdempotencyKey string `json:"idempotencyKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PlanID == "" {
		respondErr(c, http.StatusBadRequest, "planId is required", "VALIDATION_ERROR")
		return
	}

	var amount any
	found := false
	for _, plan := range plans {
		if plan["_id"] == req.PlanID {
			amount = plan["price"]
			found = true
			break
		}
	}
	if !found {
		respondErr(c, http.StatusNotFound, "Plan not found", "NOT_FOUND")
		return
	}

	payment := gin.H{
		"_id":           uuid.NewString(),
		"amount":        amount,
		"currency":      "EUR",
		"status":        "completed",
		"type":          paymentType,
		"transactionId": uuid.NewString(),
		"createdAt":     time.Now().Format(time.RFC3339),
	}

	b.mu.Lock()
	b.payments = append(b.payments, payment)
	b.mu.Unlock()

	respondOK(c, http.StatusCreated, payment)
}

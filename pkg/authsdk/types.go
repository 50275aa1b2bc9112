package authsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a stable machine-readable code (e.g. "invalid_credentials")
	Error string `json:"error"`

	// Message is a human-readable description
	Message string `json:"message"`

	// UserExists is set on duplicate registrations and holds the existing account
	UserExists *UserView `json:"userExists,omitempty"`
}

// ============================================================================
// User Types
// ============================================================================

// UserView is the public representation of an account. It never contains the
// password hash.
type UserView struct {
	ID            string             `json:"_id"`
	Username      string             `json:"username"`
	Email         string             `json:"email"`
	Role          string             `json:"role"`
	FCMToken      string             `json:"fcmToken,omitempty"`
	Cart          []CartItemView     `json:"cart"`
	Notifications []NotificationView `json:"notifications"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// CartItemView is one line of a user's cart.
type CartItemView struct {
	TemplateID string    `json:"template"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"addedAt"`
}

// NotificationView is one entry of a user's notification history.
type NotificationView struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// UserSummary is the minimal projection returned by GET /user.
type UserSummary struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse is returned from GET /user/{id}.
type UserResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

// ListUsersResponse is returned from GET /user.
type ListUsersResponse struct {
	Message string        `json:"message"`
	Users   []UserSummary `json:"users"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// FCMToken is the device's push token; optional
	FCMToken string `json:"fcmToken,omitempty"`
}

// RegisterResponse is returned from POST /register.
type RegisterResponse struct {
	Message             string   `json:"message"`
	User                UserView `json:"user"`
	NotificationTitle   string   `json:"notificationTitle"`
	NotificationMessage string   `json:"notificationMessage"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned from POST /login.
type LoginResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`

	// Token is the access token (1 hour)
	Token string `json:"token"`

	// RefreshToken redeems new access tokens at POST /refresh (7 days)
	RefreshToken string `json:"refreshToken"`
}

// RefreshRequest is the body of POST /refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse is returned from POST /refresh.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the store connection status
	Database string `json:"database"`

	// Notifier reports the push queue status
	Notifier string `json:"notifier,omitempty"`
}

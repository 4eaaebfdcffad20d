package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
)

// Authentication limits
const (
	MinPasswordLength       = 8
	MaxTwoFactorAttempts    = 5
	TwoFactorLockoutMinutes = 15
)

// Pagination limits
const (
	FirstPage       = 1
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

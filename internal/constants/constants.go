package constants

import "time"

// Context keys set by the auth middleware
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

const (
	// MinPasswordLength is the minimum accepted password length on registration
	MinPasswordLength = 6

	// BearerPrefix precedes the token in the Authorization header
	BearerPrefix = "Bearer "

	// TokenIssuer is written to the iss claim of every issued token
	TokenIssuer = "task-assignment-api"

	// DefaultTokenTTL is used when the configuration does not set one
	DefaultTokenTTL = 24 * time.Hour

	// NotificationTimeout bounds a single detached notification attempt
	NotificationTimeout = 30 * time.Second
)

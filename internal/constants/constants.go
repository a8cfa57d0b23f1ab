package constants

import "time"

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// TokenByteLength is the number of random bytes in an issued bearer token.
	TokenByteLength = 32

	// TokenTTL is how long an issued bearer token stays valid.
	TokenTTL = 10 * time.Hour
)

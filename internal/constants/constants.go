package constants

import "time"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Authentication
const (
	AuthCookieName    = "mt_auth_token"
	AuthTokenDuration = 7 * 24 * time.Hour
	MinPasswordLength = 8

	// ContextAdminIDKey is the gin context key the auth middleware stores the admin id under.
	ContextAdminIDKey = "adminId"
)

// Public form sessions
const (
	FormSessionName = "mt_form_session"
	DraftKeyPrefix  = "draft:"
)

// Dashboard
const RecentGroupsLimit = 5

const IdempotencyHeader = "Idempotency-Key"

const MaxIdempotencyKeyLength = 64

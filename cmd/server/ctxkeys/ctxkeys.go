// Package ctxkeys holds the keys used for fiber Locals shared between
// middlewares and handlers.
package ctxkeys

const (
	// UserIDKey is the Locals key for the authenticated user's id (hex string).
	UserIDKey = "userID"
	// UserEmailKey is the Locals key for the authenticated user's email.
	UserEmailKey = "userEmail"
	// ParentCtxKey carries the request-bound context into WebSocket handlers.
	ParentCtxKey = "parentCtx"
)

package common

import (
	"context"
)

// DemoUserID scopes requests that carry no user identity.
const DemoUserID = "demo"

// UserContext holds the identity resolved for a request. When absent (nil),
// the request is served from the demo data source.
type UserContext struct {
	UserID string
	Email  string
	Demo   bool
}

type contextKey int

const (
	userContextKey contextKey = iota
)

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or DemoUserID when no user context is present.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.UserID != "" {
		return uc.UserID
	}
	return DemoUserID
}

// IsDemo reports whether the request should be served from demo data.
func IsDemo(ctx context.Context) bool {
	uc := UserContextFromContext(ctx)
	return uc == nil || uc.Demo || uc.UserID == ""
}

package kernel

import "context"

// AuthContext is the authenticated caller attached to a request.
type AuthContext struct {
	AccountID AccountID `json:"account_id"`
	Email     string    `json:"email"`
	Login     string    `json:"login"`
}

func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.AccountID.IsZero() && ac.Email != ""
}

type ContextKey string

const (
	AuthContextKey ContextKey = "auth_context"
	RequestIDKey   ContextKey = "request_id"
)

// WithAuth returns a copy of ctx carrying ac.
func WithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, AuthContextKey, ac)
}

// AuthFrom returns the AuthContext stored by WithAuth.
func AuthFrom(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(AuthContextKey).(*AuthContext)
	return ac, ok && ac != nil
}

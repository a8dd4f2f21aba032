package gate

import (
	"context"

	"github.com/hongminglow/astra-console/internal/models"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores the resolved caller in ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the caller resolved by the gate for this request.
func FromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

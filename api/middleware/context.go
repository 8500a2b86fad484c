package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxCustomerID contextKey = "customer_id"
	ctxRole       contextKey = "actor_role"
)

func CustomerIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxCustomerID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated subject for downstream handlers.
func WithActor(ctx context.Context, subjectID uuid.UUID, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxCustomerID, subjectID)
	return context.WithValue(ctx, ctxRole, role)
}

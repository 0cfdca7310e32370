package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	ownerIDKey   ctxKey = "owner_id"
)

// WithRequestID tags the context with the id assigned to one inbound update.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// WithOwnerID tags the context with the chat user the update came from.
func WithOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

func OwnerIDFrom(ctx context.Context) (int64, bool) {
	if v := ctx.Value(ownerIDKey); v != nil {
		return v.(int64), true
	}
	return 0, false
}

// FromCtx returns a logger with request_id and owner_id automatically added.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if ownerID, ok := OwnerIDFrom(ctx); ok {
		l = l.With(zap.Int64("owner_id", ownerID))
	}
	return l
}

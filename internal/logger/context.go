package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns an entry with request_id and user_id attached when present.
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(GetLogger())
	if ctx == nil {
		return entry
	}

	f := logrus.Fields{}
	if id := GetRequestID(ctx); id != "" {
		f["request_id"] = id
	}
	if id := GetUserID(ctx); id != "" {
		f["user_id"] = id
	}
	if len(f) > 0 {
		entry = entry.WithFields(f)
	}
	return entry
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Debug(msg)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Info(msg)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Warn(msg)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Error(msg)
}

// CtxWithError logs msg at error level with err attached.
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).WithError(err).WithFields(fields(args)).Error(msg)
}

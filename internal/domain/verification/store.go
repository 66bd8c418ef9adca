package verification

import (
	"context"
	"time"
)

// Store persists verification overrides and requests.
type Store interface {
	// GetOverride reports the admin override for userID and whether one exists.
	GetOverride(ctx context.Context, userID string) (verified bool, found bool, err error)
	SetOverride(ctx context.Context, userID string, verified bool) error

	// ReplaceRequest stores req as the only request of req.UserID.
	ReplaceRequest(ctx context.Context, req *Request) error
	GetRequest(ctx context.Context, id string) (*Request, error)
	GetRequestByUser(ctx context.Context, userID string) (*Request, error)
	// ListRequests returns requests newest first; empty status means all.
	ListRequests(ctx context.Context, status RequestStatus) ([]Request, error)

	// Resolve moves a pending request to status. Approval also sets the
	// user's override to true in the same write.
	Resolve(ctx context.Context, id string, status RequestStatus, at time.Time) (*Request, error)
}

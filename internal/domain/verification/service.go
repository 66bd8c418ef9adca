package verification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"photomarket/internal/events"
	"photomarket/internal/logger"
)

// DefaultSource supplies the seed-data verification flag used when no
// admin override exists.
type DefaultSource interface {
	SeedVerified(ctx context.Context, userID string) (bool, error)
}

// Registry is the single source of truth for "is this creative verified".
type Registry struct {
	store     Store
	defaults  DefaultSource
	publisher events.Publisher
	now       func() time.Time
}

func NewRegistry(store Store, defaults DefaultSource, publisher events.Publisher) *Registry {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Registry{
		store:     store,
		defaults:  defaults,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IsVerified checks the override first, then the seed default.
func (r *Registry) IsVerified(ctx context.Context, userID string) (bool, error) {
	verified, found, err := r.store.GetOverride(ctx, userID)
	if err != nil {
		return false, err
	}
	if found {
		return verified, nil
	}
	if r.defaults == nil {
		return false, nil
	}
	return r.defaults.SeedVerified(ctx, userID)
}

func (r *Registry) SetVerification(ctx context.Context, userID string, verified bool) error {
	if err := r.store.SetOverride(ctx, userID, verified); err != nil {
		return err
	}
	logger.CtxInfo(ctx, "verification override set", "target_user_id", userID, "verified", verified)
	return nil
}

// SubmitRequest files a pending request, superseding any earlier one.
func (r *Registry) SubmitRequest(ctx context.Context, userID, name, email, message string) (*Request, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}

	req := &Request{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		Message:     message,
		Status:      StatusPending,
		SubmittedAt: r.now(),
	}
	if err := r.store.ReplaceRequest(ctx, req); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "verification request submitted", "request_id", req.ID)
	return req, nil
}

// ResolveRequest approves or denies a pending request. Denial leaves any
// existing verification untouched.
func (r *Registry) ResolveRequest(ctx context.Context, requestID string, approved bool) (*Request, error) {
	status := StatusDenied
	if approved {
		status = StatusApproved
	}

	req, err := r.store.Resolve(ctx, requestID, status, r.now())
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "verification request resolved", "request_id", req.ID, "status", req.Status)
	r.publisher.Publish(ctx, req.UserID, events.Event{
		Type: events.TypeVerificationResolved,
		Payload: map[string]any{
			"request_id": req.ID,
			"status":     req.Status,
		},
	})
	return req, nil
}

func (r *Registry) GetRequestForUser(ctx context.Context, userID string) (*Request, error) {
	return r.store.GetRequestByUser(ctx, userID)
}

func (r *Registry) ListRequests(ctx context.Context, status RequestStatus) ([]Request, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return r.store.ListRequests(ctx, status)
}

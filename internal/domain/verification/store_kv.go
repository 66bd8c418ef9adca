package verification

import (
	"context"
	"errors"
	"sort"
	"time"

	"photomarket/internal/kvstore"
	"photomarket/internal/logger"
)

const (
	verifiedMapKey = "verified_map"
	requestsKey    = "verification_requests"
)

// KVStore keeps the verified map and the request list as two whole documents.
type KVStore struct {
	verified *kvstore.Document[map[string]bool]
	requests *kvstore.Document[[]Request]
}

func NewKVStore(store kvstore.Store) *KVStore {
	return &KVStore{
		verified: kvstore.NewDocument(store, verifiedMapKey, func() map[string]bool { return map[string]bool{} }),
		requests: kvstore.NewDocument(store, requestsKey, func() []Request { return []Request{} }),
	}
}

func (s *KVStore) GetOverride(ctx context.Context, userID string) (bool, bool, error) {
	m, err := s.verified.Load(ctx)
	if err != nil {
		return false, false, err
	}
	v, ok := m[userID]
	return v, ok, nil
}

func (s *KVStore) SetOverride(ctx context.Context, userID string, verified bool) error {
	return s.verified.Update(ctx, func(m *map[string]bool) error {
		if *m == nil {
			*m = map[string]bool{}
		}
		(*m)[userID] = verified
		return nil
	})
}

func (s *KVStore) ReplaceRequest(ctx context.Context, req *Request) error {
	return s.requests.Update(ctx, func(list *[]Request) error {
		kept := (*list)[:0]
		for _, r := range *list {
			if r.UserID != req.UserID {
				kept = append(kept, r)
			}
		}
		*list = append(kept, *req)
		return nil
	})
}

func (s *KVStore) GetRequest(ctx context.Context, id string) (*Request, error) {
	return s.find(ctx, func(r Request) bool { return r.ID == id })
}

func (s *KVStore) GetRequestByUser(ctx context.Context, userID string) (*Request, error) {
	return s.find(ctx, func(r Request) bool { return r.UserID == userID })
}

func (s *KVStore) find(ctx context.Context, match func(Request) bool) (*Request, error) {
	list, err := s.requests.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if match(r) {
			found := r
			return &found, nil
		}
	}
	return nil, ErrRequestNotFound
}

func (s *KVStore) ListRequests(ctx context.Context, status RequestStatus) ([]Request, error) {
	list, err := s.requests.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Request, 0, len(list))
	for _, r := range list {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *KVStore) Resolve(ctx context.Context, id string, status RequestStatus, at time.Time) (*Request, error) {
	var resolved Request
	err := s.requests.Update(ctx, func(list *[]Request) error {
		for i := range *list {
			r := &(*list)[i]
			if r.ID != id {
				continue
			}
			if r.Status != StatusPending {
				return ErrRequestAlreadyResolved
			}
			r.Status = status
			resolvedAt := at
			r.ResolvedAt = &resolvedAt
			resolved = *r
			return nil
		}
		return ErrRequestNotFound
	})
	if err != nil {
		return nil, err
	}

	if status == StatusApproved {
		if err := s.SetOverride(ctx, resolved.UserID, true); err != nil {
			if rerr := s.reopen(ctx, id); rerr != nil {
				logger.CtxWithError(ctx, "kv verification reopen failed", rerr, "request_id", id)
				return nil, errors.Join(err, rerr)
			}
			return nil, err
		}
	}
	return &resolved, nil
}

// reopen puts a request back to pending so a failed approval can be retried.
func (s *KVStore) reopen(ctx context.Context, id string) error {
	return s.requests.Update(ctx, func(list *[]Request) error {
		for i := range *list {
			if (*list)[i].ID == id {
				(*list)[i].Status = StatusPending
				(*list)[i].ResolvedAt = nil
				return nil
			}
		}
		return ErrRequestNotFound
	})
}

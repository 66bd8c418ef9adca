package credits

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"photomarket/internal/kvstore"
	"photomarket/internal/logger"
)

const (
	balancesKey     = "credit_balances"
	transactionsKey = "credit_transactions"
)

// KVStore keeps balances and transactions as two whole documents. A debit
// touches both, so this process serializes debits with mu.
type KVStore struct {
	mu           sync.Mutex
	balances     *kvstore.Document[map[string]int64]
	transactions *kvstore.Document[[]Transaction]
}

func NewKVStore(store kvstore.Store) *KVStore {
	return &KVStore{
		balances:     kvstore.NewDocument(store, balancesKey, func() map[string]int64 { return map[string]int64{} }),
		transactions: kvstore.NewDocument(store, transactionsKey, func() []Transaction { return []Transaction{} }),
	}
}

func (s *KVStore) GetOrCreate(ctx context.Context, userID string, starting int64) (int64, error) {
	var out int64
	err := s.balances.Update(ctx, func(m *map[string]int64) error {
		if *m == nil {
			*m = map[string]int64{}
		}
		b, ok := (*m)[userID]
		if !ok {
			b = starting
			(*m)[userID] = b
		}
		out = b
		return nil
	})
	return out, err
}

func (s *KVStore) SetBalance(ctx context.Context, userID string, balance int64) error {
	return s.balances.Update(ctx, func(m *map[string]int64) error {
		if *m == nil {
			*m = map[string]int64{}
		}
		(*m)[userID] = balance
		return nil
	})
}

func (s *KVStore) Debit(ctx context.Context, txn *Transaction, starting int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cost := -txn.Amount
	var out int64
	err := s.balances.Update(ctx, func(m *map[string]int64) error {
		if *m == nil {
			*m = map[string]int64{}
		}
		b, ok := (*m)[txn.UserID]
		if !ok {
			b = starting
		}
		if b < cost {
			return ErrInsufficientCredits
		}
		out = b - cost
		(*m)[txn.UserID] = out
		return nil
	})
	if err != nil {
		return 0, err
	}

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	err = s.transactions.Update(ctx, func(list *[]Transaction) error {
		*list = append(*list, *txn)
		return nil
	})
	if err != nil {
		if rerr := s.refund(ctx, txn.UserID, cost); rerr != nil {
			logger.CtxWithError(ctx, "kv debit refund failed", rerr, "user_id", txn.UserID, "amount", cost)
			return 0, errors.Join(err, rerr)
		}
		return 0, err
	}
	return out, nil
}

// refund puts back a debit whose transaction record could not be written.
func (s *KVStore) refund(ctx context.Context, userID string, amount int64) error {
	return s.balances.Update(ctx, func(m *map[string]int64) error {
		if *m == nil {
			*m = map[string]int64{}
		}
		(*m)[userID] += amount
		return nil
	})
}

func (s *KVStore) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	list, err := s.transactions.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Transaction, 0)
	for _, t := range list {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

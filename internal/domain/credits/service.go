package credits

import (
	"context"
	"time"

	"photomarket/internal/logger"
	"photomarket/internal/metrics"
)

// Ledger owns every Connects balance. Balances start at the configured
// amount the first time they are read.
type Ledger struct {
	store    Store
	starting int64
	now      func() time.Time
}

func NewLedger(store Store, starting int64) *Ledger {
	if starting < 0 {
		starting = DefaultStartingCredits
	}
	return &Ledger{
		store:    store,
		starting: starting,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (l *Ledger) Balance(ctx context.Context, userID string) (int64, error) {
	return l.store.GetOrCreate(ctx, userID, l.starting)
}

func (l *Ledger) SetBalance(ctx context.Context, userID string, balance int64) error {
	if balance < 0 {
		return ErrNegativeBalance
	}
	return l.store.SetBalance(ctx, userID, balance)
}

// Debit removes amount from userID's balance and records why. The balance
// is never allowed to go negative.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64, reason string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	txn := &Transaction{
		UserID:    userID,
		Amount:    -amount,
		Reason:    reason,
		CreatedAt: l.now(),
	}
	balance, err := l.store.Debit(ctx, txn, l.starting)
	if err != nil {
		return nil, err
	}

	metrics.RecordDebit(amount)
	logger.CtxInfo(ctx, "credits debited", "amount", amount, "reason", reason, "balance", balance)
	return txn, nil
}

func (l *Ledger) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	return l.store.Transactions(ctx, userID)
}

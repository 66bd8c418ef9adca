package credits

import "context"

// Store persists balances and the transaction trail.
type Store interface {
	// GetOrCreate returns the balance of userID, creating it at starting
	// when no record exists.
	GetOrCreate(ctx context.Context, userID string, starting int64) (int64, error)
	SetBalance(ctx context.Context, userID string, balance int64) error
	// Debit subtracts txn.Amount's magnitude only when the balance covers it
	// and records txn in the same write. Returns the new balance.
	Debit(ctx context.Context, txn *Transaction, starting int64) (int64, error)
	// Transactions lists userID's transactions newest first.
	Transactions(ctx context.Context, userID string) ([]Transaction, error)
}

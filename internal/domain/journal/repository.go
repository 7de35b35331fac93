package journal

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Entry, error)
	ListByTxID(ctx context.Context, txID string) ([]Entry, error)
}

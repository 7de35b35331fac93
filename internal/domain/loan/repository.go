package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID uint64) (*Loan, error)
	// GetByLoanIDForUpdate reads the loan row under a write lock; only
	// meaningful inside a transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*Loan, error)
	List(ctx context.Context, f Filter) ([]Loan, error)

	// NextLoanID locks the loan counter and returns the id the next loan gets.
	NextLoanID(ctx context.Context) (uint64, error)
	// AdvanceCounter stores next as the following id to assign.
	AdvanceCounter(ctx context.Context, next uint64) error
	Count(ctx context.Context) (uint64, error)
}

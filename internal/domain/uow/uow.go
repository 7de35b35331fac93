package uow

import (
	"context"

	"loan-registry/internal/domain/escrow"
	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/loan"
)

// Repos are bound to the transaction of the enclosing unit of work.
type Repos struct {
	Loans    loan.Repository
	Balances escrow.Repository
	Journal  journal.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; loan.ErrNotFound when absent
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}

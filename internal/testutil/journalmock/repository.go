package journalmock

import (
	"context"

	domain "loan-registry/internal/domain/journal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository. Append
// without AppendFn records the entry in Entries.
type Repo struct {
	AppendFn       func(ctx context.Context, e *domain.Entry) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.Entry, error)
	ListByTxIDFn   func(ctx context.Context, txID string) ([]domain.Entry, error)

	Entries []domain.Entry
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Entry, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByTxID(ctx context.Context, txID string) ([]domain.Entry, error) {
	if m.ListByTxIDFn != nil {
		return m.ListByTxIDFn(ctx, txID)
	}
	return nil, context.Canceled
}

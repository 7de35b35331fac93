package query

import (
	"context"
	"errors"
	"fmt"

	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/loan"
	loanuc "loan-registry/internal/usecase/loan"

	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Facade is the read side of the registry. Reads go straight to the
// repositories without row locks and see the last committed state.
type Facade struct {
	loans   loan.Repository
	journal journal.Repository
}

func NewFacade(loans loan.Repository, j journal.Repository) *Facade {
	return &Facade{loans: loans, journal: j}
}

func (f *Facade) LoanCount(ctx context.Context) (uint64, error) {
	return f.loans.Count(ctx)
}

func (f *Facade) GetLoan(ctx context.Context, loanID uint64) (*loanuc.LoanDTO, error) {
	l, err := f.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", loan.ErrNotFound, loanID)
	}
	if err != nil {
		return nil, err
	}
	return loanuc.ToDTO(l), nil
}

type ListFilter struct {
	Borrower string
	Lender   string
	Status   string
	Limit    int
	Offset   int
}

func (f *Facade) ListLoans(ctx context.Context, in ListFilter) ([]loanuc.LoanDTO, error) {
	filter := loan.Filter{
		Borrower: in.Borrower,
		Lender:   in.Lender,
		Status:   loan.Status(in.Status),
		Limit:    in.Limit,
		Offset:   in.Offset,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", loan.ErrInvalidParameter, in.Status)
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", loan.ErrInvalidParameter)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	list, err := f.loans.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]loanuc.LoanDTO, 0, len(list))
	for i := range list {
		out = append(out, *loanuc.ToDTO(&list[i]))
	}
	return out, nil
}

// LoanJournal returns every balance movement recorded against a loan, oldest
// first.
func (f *Facade) LoanJournal(ctx context.Context, loanID uint64) ([]journal.Entry, error) {
	if _, err := f.loans.GetByLoanID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", loan.ErrNotFound, loanID)
		}
		return nil, err
	}
	return f.journal.ListByLoanID(ctx, loanID)
}

// TxJournal returns the movements one operation made, in the order they were
// recorded. Unknown ids are reported as journal.ErrNotFound.
func (f *Facade) TxJournal(ctx context.Context, txID string) ([]journal.Entry, error) {
	entries, err := f.journal.ListByTxID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: tx %s", journal.ErrNotFound, txID)
	}
	return entries, nil
}

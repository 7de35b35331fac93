package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/loan"
	"loan-registry/internal/domain/uow"
	"loan-registry/internal/usecase/escrow"
	"loan-registry/pkg/amount"
	"loan-registry/pkg/id"

	"go.uber.org/zap"
)

// Usecase is the loan registry. Each operation is one unit of work: the
// loan row (or, for creation, the id counter) is locked first, escrow
// movements and the status write follow, and any error rolls all of it back.
type Usecase struct {
	uow    uow.UnitOfWork
	policy loan.Policy
	log    *zap.Logger
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, policy loan.Policy, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, policy: policy, log: log, now: time.Now}
}

// WithClock replaces the wall clock used for timestamps and expiry checks.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	in, err := u.validateCreate(in)
	if err != nil {
		return nil, err
	}

	ref := journal.Ref{TxID: id.NewID32(), Op: journal.OpCreate}
	var out *loan.Loan
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		next, err := r.Loans.NextLoanID(ctx)
		if err != nil {
			return err
		}
		ref.LoanID = &next

		if err := escrow.Bind(r, ref).Lock(ctx, in.Borrower, in.CollateralAsset, in.CollateralAmount); err != nil {
			return err
		}

		now := u.now().UTC()
		l := &loan.Loan{
			LoanID:           next,
			Borrower:         in.Borrower,
			CollateralAsset:  in.CollateralAsset,
			CollateralAmount: amount.Of(in.CollateralAmount),
			LoanAsset:        in.LoanAsset,
			LoanAmount:       amount.Of(in.LoanAmount),
			DurationDays:     in.DurationDays,
			Status:           loan.StatusCreated,
			StatusUpdatedAt:  now,
			CreatedAt:        now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Loans.AdvanceCounter(ctx, next+1); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logTransition(journal.OpCreate, ref.TxID, out)
	return ToDTO(out), nil
}

func (u *Usecase) Fund(ctx context.Context, in FundLoanInput) (*LoanDTO, error) {
	lender := strings.TrimSpace(in.Lender)
	if err := escrow.CheckAccount(lender); err != nil {
		return nil, fmt.Errorf("%w: lender: %v", loan.ErrInvalidParameter, err)
	}
	return u.transition(ctx, in.LoanID, journal.OpFund, loan.StatusFunded, func(e *escrow.Escrow, l *loan.Loan, now time.Time) error {
		if lender == l.Borrower && !u.policy.AllowSelfFunding {
			return fmt.Errorf("%w: lender must differ from borrower", loan.ErrInvalidParameter)
		}
		if err := e.Transfer(ctx, lender, l.Borrower, l.LoanAsset, l.LoanAmount.Decimal); err != nil {
			return err
		}
		l.Lender = lender
		l.FundedAt = &now
		return nil
	})
}

// Repay returns the borrowed amount to the lender and releases the
// collateral. Both movements and the status write commit together.
func (u *Usecase) Repay(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	return u.transition(ctx, loanID, journal.OpRepay, loan.StatusRepaid, func(e *escrow.Escrow, l *loan.Loan, _ time.Time) error {
		err := e.Acquire(ctx,
			escrow.Key{Account: l.Borrower, Asset: l.LoanAsset},
			escrow.Key{Account: l.Lender, Asset: l.LoanAsset},
			escrow.Key{Account: l.Borrower, Asset: l.CollateralAsset},
		)
		if err != nil {
			return err
		}
		if err := e.Transfer(ctx, l.Borrower, l.Lender, l.LoanAsset, l.LoanAmount.Decimal); err != nil {
			return err
		}
		return e.Release(ctx, l.Borrower, l.CollateralAsset, l.CollateralAmount.Decimal)
	})
}

// Expire defaults a funded loan whose term has elapsed, handing the locked
// collateral to the lender.
func (u *Usecase) Expire(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	return u.transition(ctx, loanID, journal.OpExpire, loan.StatusDefaulted, func(e *escrow.Escrow, l *loan.Loan, now time.Time) error {
		if !now.After(l.DueAt()) {
			return fmt.Errorf("%w: loan %d due at %s", loan.ErrNotYetDue, l.LoanID, l.DueAt().Format(time.RFC3339))
		}
		return e.Seize(ctx, l.Borrower, l.Lender, l.CollateralAsset, l.CollateralAmount.Decimal)
	})
}

func (u *Usecase) Cancel(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	return u.transition(ctx, loanID, journal.OpCancel, loan.StatusCancelled, func(e *escrow.Escrow, l *loan.Loan, _ time.Time) error {
		return e.Release(ctx, l.Borrower, l.CollateralAsset, l.CollateralAmount.Decimal)
	})
}

// transition runs apply against the locked loan after checking that next is
// reachable from its current status, then stores the new status.
func (u *Usecase) transition(
	ctx context.Context,
	loanID uint64,
	op journal.Op,
	next loan.Status,
	apply func(e *escrow.Escrow, l *loan.Loan, now time.Time) error,
) (*LoanDTO, error) {
	ref := journal.Ref{TxID: id.NewID32(), Op: op, LoanID: &loanID}
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !loan.CanTransition(l.Status, next) {
			return fmt.Errorf("%w: cannot %s loan %d in status %s", loan.ErrInvalidState, op, l.LoanID, l.Status)
		}
		now := u.now().UTC()
		if err := apply(escrow.Bind(r, ref), l, now); err != nil {
			return err
		}
		if err := l.Transition(next, now); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logTransition(op, ref.TxID, out)
	return ToDTO(out), nil
}

func (u *Usecase) validateCreate(in CreateLoanInput) (CreateLoanInput, error) {
	in.Borrower = strings.TrimSpace(in.Borrower)
	if err := escrow.CheckAccount(in.Borrower); err != nil {
		return in, fmt.Errorf("%w: borrower: %v", loan.ErrInvalidParameter, err)
	}
	var err error
	if in.CollateralAsset, err = escrow.NormalizeAsset(in.CollateralAsset); err != nil {
		return in, fmt.Errorf("%w: collateral_asset: %v", loan.ErrInvalidParameter, err)
	}
	if in.LoanAsset, err = escrow.NormalizeAsset(in.LoanAsset); err != nil {
		return in, fmt.Errorf("%w: loan_asset: %v", loan.ErrInvalidParameter, err)
	}
	if err := escrow.CheckAmount(in.CollateralAmount); err != nil {
		return in, fmt.Errorf("%w: collateral_amount: %v", loan.ErrInvalidParameter, err)
	}
	if err := escrow.CheckAmount(in.LoanAmount); err != nil {
		return in, fmt.Errorf("%w: loan_amount: %v", loan.ErrInvalidParameter, err)
	}
	if in.DurationDays <= 0 {
		return in, fmt.Errorf("%w: duration_days must be positive", loan.ErrInvalidParameter)
	}
	if u.policy.RequireDistinctAssets && in.CollateralAsset == in.LoanAsset {
		return in, fmt.Errorf("%w: collateral and loan asset must differ", loan.ErrInvalidParameter)
	}
	return in, nil
}

func (u *Usecase) logTransition(op journal.Op, txID string, l *loan.Loan) {
	u.log.Info("loan transition",
		zap.String("op", string(op)),
		zap.String("tx_id", txID),
		zap.Uint64("loan_id", l.LoanID),
		zap.String("status", string(l.Status)),
		zap.String("borrower", l.Borrower),
		zap.String("lender", l.Lender),
	)
}

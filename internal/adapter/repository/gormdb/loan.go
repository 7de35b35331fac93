package gormdb

import (
	"context"

	loanDomain "loan-registry/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

// SQLite ignores the locking clause; there the single connection serializes writers.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	if f.Borrower != "" {
		q = q.Where("borrower = ?", f.Borrower)
	}
	if f.Lender != "" {
		q = q.Where("lender = ?", f.Lender)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []loanDomain.Loan
	err := q.Order("loan_id ASC").Find(&out).Error
	return out, err
}

func (r *LoanRepository) NextLoanID(ctx context.Context) (uint64, error) {
	var c loanDomain.Counter
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", loanDomain.CounterLoans).
		First(&c).Error
	return c.Value, err
}

func (r *LoanRepository) AdvanceCounter(ctx context.Context, next uint64) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Counter{}).
		Where("name = ? AND value = ?", loanDomain.CounterLoans, next-1).
		Update("value", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return errCounterMoved
	}
	return nil
}

func (r *LoanRepository) Count(ctx context.Context) (uint64, error) {
	var c loanDomain.Counter
	err := r.db.WithContext(ctx).Where("name = ?", loanDomain.CounterLoans).First(&c).Error
	return c.Value, err
}

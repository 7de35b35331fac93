package gormdb

import (
	"context"

	journalDomain "loan-registry/internal/domain/journal"

	"gorm.io/gorm"
)

// JournalRepository is append-only.
type JournalRepository struct{ db *gorm.DB }

func NewJournalRepository(db *gorm.DB) *JournalRepository { return &JournalRepository{db: db} }

func (r *JournalRepository) Append(ctx context.Context, e *journalDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *JournalRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]journalDomain.Entry, error) {
	var out []journalDomain.Entry
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *JournalRepository) ListByTxID(ctx context.Context, txID string) ([]journalDomain.Entry, error) {
	var out []journalDomain.Entry
	err := r.db.WithContext(ctx).
		Where("tx_id = ?", txID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

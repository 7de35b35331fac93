package gormdb

import (
	"context"

	escrowDomain "loan-registry/internal/domain/escrow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository struct{ db *gorm.DB }

func NewBalanceRepository(db *gorm.DB) *BalanceRepository { return &BalanceRepository{db: db} }

func (r *BalanceRepository) Get(ctx context.Context, account, asset string) (*escrowDomain.Balance, error) {
	var out escrowDomain.Balance
	res := r.db.WithContext(ctx).
		Where("account = ? AND asset = ?", account, asset).
		First(&out)
	return &out, res.Error
}

// GetForUpdate creates the pair at zero when missing, then locks it. A
// locking read on an absent row would lock nothing and leave two first
// credits racing on the unique index.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, account, asset string) (*escrowDomain.Balance, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(escrowDomain.Zero(account, asset)).Error
	if err != nil {
		return nil, err
	}
	var out escrowDomain.Balance
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account = ? AND asset = ?", account, asset).
		First(&out)
	return &out, res.Error
}

func (r *BalanceRepository) ListByAccount(ctx context.Context, account string) ([]escrowDomain.Balance, error) {
	var out []escrowDomain.Balance
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		Order("asset ASC").
		Find(&out).Error
	return out, err
}

// Save inserts a new pair or updates an existing row.
func (r *BalanceRepository) Save(ctx context.Context, b *escrowDomain.Balance) error {
	if b.ID == 0 {
		return r.db.WithContext(ctx).Create(b).Error
	}
	return r.db.WithContext(ctx).Save(b).Error
}

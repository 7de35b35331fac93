package escrow

import "context"

type Repository interface {
	// Get returns gorm.ErrRecordNotFound when the pair has never held funds.
	Get(ctx context.Context, account, asset string) (*Balance, error)
	// GetForUpdate locks the pair's row, creating it at zero when missing.
	GetForUpdate(ctx context.Context, account, asset string) (*Balance, error)
	ListByAccount(ctx context.Context, account string) ([]Balance, error)
	Save(ctx context.Context, b *Balance) error
}

package balancemock

import (
	"context"

	domain "loan-registry/internal/domain/escrow"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetFn           func(ctx context.Context, account, asset string) (*domain.Balance, error)
	GetForUpdateFn  func(ctx context.Context, account, asset string) (*domain.Balance, error)
	ListByAccountFn func(ctx context.Context, account string) ([]domain.Balance, error)
	SaveFn          func(ctx context.Context, b *domain.Balance) error
}

func (m *Repo) Get(ctx context.Context, account, asset string) (*domain.Balance, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, account, asset)
	}
	return nil, context.Canceled
}

func (m *Repo) GetForUpdate(ctx context.Context, account, asset string) (*domain.Balance, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, account, asset)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByAccount(ctx context.Context, account string) ([]domain.Balance, error) {
	if m.ListByAccountFn != nil {
		return m.ListByAccountFn(ctx, account)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, b *domain.Balance) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

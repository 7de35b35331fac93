package escrow

import (
	"context"
	"errors"

	"loan-registry/internal/domain/escrow"
	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/uow"
	"loan-registry/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Usecase exposes account-level funding on top of Escrow: deposits and
// withdrawals of available balance, and balance reads.
type Usecase struct {
	uow      uow.UnitOfWork
	balances escrow.Repository
	log      *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, balances escrow.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, balances: balances, log: log}
}

func (u *Usecase) Deposit(ctx context.Context, in MovementInput) (*MovementDTO, error) {
	return u.move(ctx, journal.OpDeposit, in)
}

func (u *Usecase) Withdraw(ctx context.Context, in MovementInput) (*MovementDTO, error) {
	return u.move(ctx, journal.OpWithdraw, in)
}

func (u *Usecase) Balance(ctx context.Context, account, asset string) (*BalanceDTO, error) {
	a, err := NormalizeAsset(asset)
	if err != nil {
		return nil, err
	}
	b, err := u.balances.Get(ctx, account, a)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		b = escrow.Zero(account, a)
	} else if err != nil {
		return nil, err
	}
	dto := toBalanceDTO(b)
	return &dto, nil
}

func (u *Usecase) Balances(ctx context.Context, account string) ([]BalanceDTO, error) {
	list, err := u.balances.ListByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	out := make([]BalanceDTO, 0, len(list))
	for i := range list {
		out = append(out, toBalanceDTO(&list[i]))
	}
	return out, nil
}

func (u *Usecase) move(ctx context.Context, op journal.Op, in MovementInput) (*MovementDTO, error) {
	asset, err := NormalizeAsset(in.Asset)
	if err != nil {
		return nil, err
	}
	ref := journal.Ref{TxID: id.NewID32(), Op: op}

	var dto *MovementDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		e := Bind(r, ref)
		var err error
		if op == journal.OpDeposit {
			err = e.Credit(ctx, in.Account, asset, in.Amount)
		} else {
			err = e.Debit(ctx, in.Account, asset, in.Amount)
		}
		if err != nil {
			return err
		}
		b, err := r.Balances.Get(ctx, in.Account, asset)
		if err != nil {
			return err
		}
		dto = &MovementDTO{TxID: ref.TxID, Balance: toBalanceDTO(b)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("balance moved",
		zap.String("op", string(op)),
		zap.String("tx_id", ref.TxID),
		zap.String("account", in.Account),
		zap.String("asset", asset),
		zap.String("amount", in.Amount.String()),
	)
	return dto, nil
}

func toBalanceDTO(b *escrow.Balance) BalanceDTO {
	return BalanceDTO{
		Account:   b.Account,
		Asset:     b.Asset,
		Available: b.Available.Decimal,
		Locked:    b.Locked.Decimal,
		Total:     b.Total(),
		UpdatedAt: b.UpdatedAt,
	}
}

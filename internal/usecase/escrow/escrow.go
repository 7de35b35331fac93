package escrow

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"loan-registry/internal/domain/escrow"
	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/uow"
	"loan-registry/pkg/amount"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxAssetLen = 16

// Escrow moves funds between available and locked balances. It works on
// repositories bound to one transaction; every movement is journaled under
// the same reference so the caller's commit or rollback covers both.
//
// Rows are locked in (asset, account) order. Operations touching more than
// one row call Acquire first so two transactions never wait on each other.
type Escrow struct {
	balances escrow.Repository
	journal  journal.Repository
	ref      journal.Ref
}

// Key names one balance row.
type Key struct {
	Account string
	Asset   string
}

func Bind(r uow.Repos, ref journal.Ref) *Escrow {
	return &Escrow{balances: r.Balances, journal: r.Journal, ref: ref}
}

// NormalizeAsset upper-cases and trims an asset code, rejecting empty or
// over-long codes.
func NormalizeAsset(asset string) (string, error) {
	a := strings.ToUpper(strings.TrimSpace(asset))
	if a == "" || len(a) > maxAssetLen {
		return "", fmt.Errorf("%w: asset code %q", escrow.ErrInvalidAmount, asset)
	}
	return a, nil
}

// CheckAccount rejects empty account ids and ids wider than the account
// columns.
func CheckAccount(account string) error {
	if account == "" {
		return fmt.Errorf("%w: empty account", escrow.ErrInvalidAmount)
	}
	if len(account) > escrow.MaxAccountLen {
		return fmt.Errorf("%w: account id longer than %d bytes", escrow.ErrInvalidAmount, escrow.MaxAccountLen)
	}
	return nil
}

// CheckAmount rejects non-positive quantities and quantities that a balance
// column cannot hold exactly.
func CheckAmount(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: amount %s must be positive", escrow.ErrInvalidAmount, qty)
	}
	if !amount.Fits(qty) {
		return fmt.Errorf("%w: amount %s exceeds %d integer digits or %d decimal places",
			escrow.ErrInvalidAmount, qty, amount.IntDigits, amount.Scale)
	}
	return nil
}

// Acquire locks every named row in a fixed order, creating missing rows.
func (e *Escrow) Acquire(ctx context.Context, keys ...Key) error {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, func(a, b Key) int {
		if c := cmp.Compare(a.Asset, b.Asset); c != 0 {
			return c
		}
		return cmp.Compare(a.Account, b.Account)
	})
	sorted = slices.Compact(sorted)
	for _, k := range sorted {
		if err := CheckAccount(k.Account); err != nil {
			return err
		}
		if _, err := e.lockRow(ctx, k.Account, k.Asset); err != nil {
			return err
		}
	}
	return nil
}

func (e *Escrow) Lock(ctx context.Context, account, asset string, qty decimal.Decimal) error {
	b, err := e.load(ctx, account, asset, qty)
	if err != nil {
		return err
	}
	if b.Available.LessThan(qty) {
		return fmt.Errorf("%w: %s has %s %s available, needs %s", escrow.ErrInsufficientBalance, account, b.Available, asset, qty)
	}
	b.Available = amount.Of(b.Available.Sub(qty))
	b.Locked = amount.Of(b.Locked.Add(qty))
	if err := e.save(ctx, b); err != nil {
		return err
	}
	return e.record(ctx, journal.KindLock, account, "", asset, qty)
}

func (e *Escrow) Release(ctx context.Context, account, asset string, qty decimal.Decimal) error {
	b, err := e.load(ctx, account, asset, qty)
	if err != nil {
		return err
	}
	if b.Locked.LessThan(qty) {
		return fmt.Errorf("%w: %s has %s %s locked, release of %s", escrow.ErrInvalidRelease, account, b.Locked, asset, qty)
	}
	b.Locked = amount.Of(b.Locked.Sub(qty))
	b.Available = amount.Of(b.Available.Add(qty))
	if err := e.save(ctx, b); err != nil {
		return err
	}
	return e.record(ctx, journal.KindRelease, account, "", asset, qty)
}

// Transfer debits from's available balance and credits to's.
func (e *Escrow) Transfer(ctx context.Context, from, to, asset string, qty decimal.Decimal) error {
	src, err := e.loadPair(ctx, from, to, asset, qty)
	if err != nil {
		return err
	}
	if src.Available.LessThan(qty) {
		return fmt.Errorf("%w: %s has %s %s available, needs %s", escrow.ErrInsufficientBalance, from, src.Available, asset, qty)
	}
	src.Available = amount.Of(src.Available.Sub(qty))
	if err := e.credit(ctx, src, to, asset, qty); err != nil {
		return err
	}
	return e.record(ctx, journal.KindTransfer, from, to, asset, qty)
}

// Seize debits from's locked balance and credits to's available balance.
func (e *Escrow) Seize(ctx context.Context, from, to, asset string, qty decimal.Decimal) error {
	src, err := e.loadPair(ctx, from, to, asset, qty)
	if err != nil {
		return err
	}
	if src.Locked.LessThan(qty) {
		return fmt.Errorf("%w: %s has %s %s locked, seizure of %s", escrow.ErrInvalidRelease, from, src.Locked, asset, qty)
	}
	src.Locked = amount.Of(src.Locked.Sub(qty))
	if err := e.credit(ctx, src, to, asset, qty); err != nil {
		return err
	}
	return e.record(ctx, journal.KindSeize, from, to, asset, qty)
}

func (e *Escrow) Credit(ctx context.Context, account, asset string, qty decimal.Decimal) error {
	b, err := e.load(ctx, account, asset, qty)
	if err != nil {
		return err
	}
	b.Available = amount.Of(b.Available.Add(qty))
	if err := e.save(ctx, b); err != nil {
		return err
	}
	return e.record(ctx, journal.KindCredit, account, "", asset, qty)
}

func (e *Escrow) Debit(ctx context.Context, account, asset string, qty decimal.Decimal) error {
	b, err := e.load(ctx, account, asset, qty)
	if err != nil {
		return err
	}
	if b.Available.LessThan(qty) {
		return fmt.Errorf("%w: %s has %s %s available, needs %s", escrow.ErrInsufficientBalance, account, b.Available, asset, qty)
	}
	b.Available = amount.Of(b.Available.Sub(qty))
	if err := e.save(ctx, b); err != nil {
		return err
	}
	return e.record(ctx, journal.KindDebit, account, "", asset, qty)
}

// ---- helpers ----

// credit saves the debited source, then adds qty to the destination's
// available balance. A transfer to self nets out on the same row.
func (e *Escrow) credit(ctx context.Context, src *escrow.Balance, to, asset string, qty decimal.Decimal) error {
	if to == src.Account {
		src.Available = amount.Of(src.Available.Add(qty))
		return e.save(ctx, src)
	}
	if err := e.save(ctx, src); err != nil {
		return err
	}
	dst, err := e.lockRow(ctx, to, asset)
	if err != nil {
		return err
	}
	dst.Available = amount.Of(dst.Available.Add(qty))
	return e.save(ctx, dst)
}

func (e *Escrow) load(ctx context.Context, account, asset string, qty decimal.Decimal) (*escrow.Balance, error) {
	if err := CheckAccount(account); err != nil {
		return nil, err
	}
	if err := CheckAmount(qty); err != nil {
		return nil, err
	}
	return e.lockRow(ctx, account, asset)
}

// loadPair locks both sides of a two-row movement in key order and returns
// the source row.
func (e *Escrow) loadPair(ctx context.Context, from, to, asset string, qty decimal.Decimal) (*escrow.Balance, error) {
	if err := CheckAccount(to); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	if err := CheckAmount(qty); err != nil {
		return nil, err
	}
	if err := e.Acquire(ctx, Key{from, asset}, Key{to, asset}); err != nil {
		return nil, err
	}
	return e.lockRow(ctx, from, asset)
}

func (e *Escrow) lockRow(ctx context.Context, account, asset string) (*escrow.Balance, error) {
	b, err := e.balances.GetForUpdate(ctx, account, asset)
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return escrow.Zero(account, asset), nil
	default:
		return nil, err
	}
}

func (e *Escrow) save(ctx context.Context, b *escrow.Balance) error {
	if !amount.Fits(b.Available.Decimal) || !amount.Fits(b.Locked.Decimal) {
		return fmt.Errorf("%w: %s %s balance would exceed %d integer digits",
			escrow.ErrInvalidAmount, b.Account, b.Asset, amount.IntDigits)
	}
	return e.balances.Save(ctx, b)
}

func (e *Escrow) record(ctx context.Context, kind journal.Kind, account, counterparty, asset string, qty decimal.Decimal) error {
	return e.journal.Append(ctx, &journal.Entry{
		TxID:         e.ref.TxID,
		Op:           e.ref.Op,
		Kind:         kind,
		LoanID:       e.ref.LoanID,
		Account:      account,
		Counterparty: counterparty,
		Asset:        asset,
		Amount:       amount.Of(qty),
	})
}

package escrow

import (
	"errors"
	"time"

	"loan-registry/pkg/amount"

	"github.com/shopspring/decimal"
)

// MaxAccountLen is the width of every account column.
const MaxAccountLen = 64

var (
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrInvalidRelease      = errors.New("insufficient locked balance")
	ErrInvalidAmount       = errors.New("invalid escrow amount")
)

// Balance is the holding of one asset by one account. Available funds move
// freely; locked funds are reserved against a loan.
type Balance struct {
	ID        uint64        `gorm:"primaryKey;column:id" json:"-"`
	Account   string        `gorm:"size:64;not null;uniqueIndex:ux_balances_account_asset" json:"account"`
	Asset     string        `gorm:"size:16;not null;uniqueIndex:ux_balances_account_asset" json:"asset"`
	Available amount.Amount `gorm:"not null" json:"available"`
	Locked    amount.Amount `gorm:"not null" json:"locked"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Balance) TableName() string { return "balances" }

// Zero returns an unsaved empty balance for the pair.
func Zero(account, asset string) *Balance {
	return &Balance{Account: account, Asset: asset, Available: amount.Zero, Locked: amount.Zero}
}

func (b *Balance) Total() decimal.Decimal { return b.Available.Add(b.Locked.Decimal) }

package escrow

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementInput struct {
	Account string          `json:"account"`
	Asset   string          `json:"asset"`
	Amount  decimal.Decimal `json:"amount"`
}

type BalanceDTO struct {
	Account   string          `json:"account"`
	Asset     string          `json:"asset"`
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

type MovementDTO struct {
	TxID    string     `json:"tx_id"`
	Balance BalanceDTO `json:"balance"`
}

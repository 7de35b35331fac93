package journal

import (
	"errors"
	"time"

	"loan-registry/pkg/amount"
)

var ErrNotFound = errors.New("journal entries not found")

// Op is the registry or account operation a movement belongs to.
type Op string

const (
	OpDeposit  Op = "deposit"
	OpWithdraw Op = "withdraw"
	OpCreate   Op = "create"
	OpFund     Op = "fund"
	OpRepay    Op = "repay"
	OpExpire   Op = "expire"
	OpCancel   Op = "cancel"
)

// Kind is the balance movement itself.
type Kind string

const (
	KindCredit   Kind = "credit"
	KindDebit    Kind = "debit"
	KindLock     Kind = "lock"
	KindRelease  Kind = "release"
	KindTransfer Kind = "transfer"
	KindSeize    Kind = "seize"
)

// Ref ties the movements of one operation together.
type Ref struct {
	TxID   string
	Op     Op
	LoanID *uint64
}

type Entry struct {
	ID           uint64        `gorm:"primaryKey;column:id" json:"-"`
	TxID         string        `gorm:"size:32;not null;index:idx_journal_tx" json:"tx_id"`
	Op           Op            `gorm:"size:16;not null" json:"op"`
	Kind         Kind          `gorm:"size:16;not null" json:"kind"`
	LoanID       *uint64       `gorm:"index:idx_journal_loan" json:"loan_id,omitempty"`
	Account      string        `gorm:"size:64;not null;index:idx_journal_account" json:"account"`
	Counterparty string        `gorm:"size:64" json:"counterparty,omitempty"`
	Asset        string        `gorm:"size:16;not null" json:"asset"`
	Amount       amount.Amount `gorm:"not null" json:"amount"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "journal_entries" }

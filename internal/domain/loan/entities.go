package loan

import (
	"errors"
	"fmt"
	"time"

	"loan-registry/pkg/amount"
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusFunded    Status = "funded"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
	StatusCancelled Status = "cancelled"
)

var (
	ErrNotFound         = errors.New("loan not found")
	ErrInvalidParameter = errors.New("invalid loan parameter")
	ErrInvalidState     = errors.New("invalid loan state")
	ErrNotYetDue        = fmt.Errorf("%w: loan term has not elapsed", ErrInvalidState)
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusCreated: {StatusFunded, StatusCancelled},
	StatusFunded:  {StatusRepaid, StatusDefaulted},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusRepaid || s == StatusDefaulted || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusFunded, StatusRepaid, StatusDefaulted, StatusCancelled:
		return true
	}
	return false
}

type Loan struct {
	ID               uint64        `gorm:"primaryKey;column:id" json:"-"`
	LoanID           uint64        `gorm:"column:loan_id;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	Borrower         string        `gorm:"size:64;index:idx_loans_borrower;not null" json:"borrower"`
	Lender           string        `gorm:"size:64;index:idx_loans_lender" json:"lender,omitempty"`
	CollateralAsset  string        `gorm:"size:16;not null" json:"collateral_asset"`
	CollateralAmount amount.Amount `gorm:"not null" json:"collateral_amount"`
	LoanAsset        string        `gorm:"size:16;not null" json:"loan_asset"`
	LoanAmount       amount.Amount `gorm:"not null" json:"loan_amount"`
	DurationDays     int           `gorm:"not null" json:"duration_days"`
	Status           Status        `gorm:"size:16;index:idx_loans_status;not null" json:"status"`
	StatusUpdatedAt  time.Time     `json:"status_updated_at"`
	FundedAt         *time.Time    `json:"funded_at,omitempty"`
	ClosedAt         *time.Time    `json:"closed_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// DueAt is the instant after which a funded loan may be expired.
func (l *Loan) DueAt() time.Time {
	return l.CreatedAt.Add(time.Duration(l.DurationDays) * 24 * time.Hour)
}

// Transition moves the loan to next, stamping the status time and, for
// terminal statuses, the closing time.
func (l *Loan) Transition(next Status, at time.Time) error {
	if !CanTransition(l.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, l.Status, next)
	}
	l.Status = next
	l.StatusUpdatedAt = at
	if next.Terminal() {
		l.ClosedAt = &at
	}
	return nil
}

// Counter holds the next loan id. One row per named sequence.
type Counter struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value uint64 `gorm:"not null"`
}

func (Counter) TableName() string { return "registry_counters" }

const CounterLoans = "loans"

// Policy holds the configurable creation and funding rules.
type Policy struct {
	RequireDistinctAssets bool
	AllowSelfFunding      bool
}

func DefaultPolicy() Policy {
	return Policy{RequireDistinctAssets: true}
}

type Filter struct {
	Borrower string
	Lender   string
	Status   Status
	Limit    int
	Offset   int
}

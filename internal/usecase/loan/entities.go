package loan

import (
	"time"

	"loan-registry/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	Borrower         string          `json:"borrower"`
	CollateralAsset  string          `json:"collateral_asset"`
	CollateralAmount decimal.Decimal `json:"collateral_amount"`
	LoanAsset        string          `json:"loan_asset"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	DurationDays     int             `json:"duration_days"`
}

type FundLoanInput struct {
	LoanID uint64 `json:"loan_id"`
	Lender string `json:"lender"`
}

type LoanDTO struct {
	LoanID           uint64          `json:"loan_id"`
	Borrower         string          `json:"borrower"`
	Lender           string          `json:"lender,omitempty"`
	CollateralAsset  string          `json:"collateral_asset"`
	CollateralAmount decimal.Decimal `json:"collateral_amount"`
	LoanAsset        string          `json:"loan_asset"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	DurationDays     int             `json:"duration_days"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	DueAt            time.Time       `json:"due_at"`
	FundedAt         *time.Time      `json:"funded_at,omitempty"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
}

func ToDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:           l.LoanID,
		Borrower:         l.Borrower,
		Lender:           l.Lender,
		CollateralAsset:  l.CollateralAsset,
		CollateralAmount: l.CollateralAmount.Decimal,
		LoanAsset:        l.LoanAsset,
		LoanAmount:       l.LoanAmount.Decimal,
		DurationDays:     l.DurationDays,
		Status:           string(l.Status),
		CreatedAt:        l.CreatedAt,
		DueAt:            l.DueAt(),
		FundedAt:         l.FundedAt,
		ClosedAt:         l.ClosedAt,
	}
}

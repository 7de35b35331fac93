package gormdb

import (
	"context"
	"testing"
	"time"

	loanDomain "loan-registry/internal/domain/loan"
	"loan-registry/pkg/amount"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens a migrated in-memory sqlite DB on a single connection,
// so every statement sees the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func makeLoan(loanID uint64, borrower string) *loanDomain.Loan {
	now := time.Now().UTC()
	return &loanDomain.Loan{
		LoanID:           loanID,
		Borrower:         borrower,
		CollateralAsset:  "GNT",
		CollateralAmount: amount.FromInt(100),
		LoanAsset:        "DGD",
		LoanAmount:       amount.FromInt(10),
		DurationDays:     30,
		Status:           loanDomain.StatusCreated,
		StatusUpdatedAt:  now,
		CreatedAt:        now,
	}
}

// insertLoan stores l and moves the counter past it, the way a create does.
func insertLoan(t *testing.T, repo *LoanRepository, l *loanDomain.Loan) {
	t.Helper()
	ctx := context.Background()
	next, err := repo.NextLoanID(ctx)
	if err != nil {
		t.Fatalf("NextLoanID: %v", err)
	}
	l.LoanID = next
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.AdvanceCounter(ctx, next+1); err != nil {
		t.Fatalf("AdvanceCounter: %v", err)
	}
}

package loan

import (
	"context"
	"sync"
	"testing"
	"time"

	"loan-registry/internal/adapter/repository/gormdb"
	"loan-registry/internal/domain/loan"
	"loan-registry/internal/infrastructure/db"
	"loan-registry/internal/usecase/escrow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// testClock is a settable clock shared by the registry under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type fixture struct {
	db       *gorm.DB
	registry *Usecase
	accounts *escrow.Usecase
	clock    *testClock
}

func newFixture(t *testing.T, policy loan.Policy) *fixture {
	t.Helper()
	gdb, err := db.OpenGorm(db.DriverSQLite, ":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := gormdb.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tx := gormdb.NewGormUoW(gdb)
	clock := &testClock{now: t0}
	return &fixture{
		db:       gdb,
		registry: NewUsecase(tx, policy, nil).WithClock(clock.Now),
		accounts: escrow.NewUsecase(tx, gormdb.NewBalanceRepository(gdb), nil),
		clock:    clock,
	}
}

func (f *fixture) deposit(t *testing.T, account, asset string, amount int64) {
	t.Helper()
	_, err := f.accounts.Deposit(context.Background(), escrow.MovementInput{
		Account: account, Asset: asset, Amount: decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("deposit %s %d %s: %v", account, amount, asset, err)
	}
}

// balance returns (available, locked) for the pair.
func (f *fixture) balance(t *testing.T, account, asset string) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	b, err := f.accounts.Balance(context.Background(), account, asset)
	if err != nil {
		t.Fatalf("balance %s %s: %v", account, asset, err)
	}
	return b.Available, b.Locked
}

func (f *fixture) wantBalance(t *testing.T, account, asset string, available, locked int64) {
	t.Helper()
	a, l := f.balance(t, account, asset)
	if !a.Equal(decimal.NewFromInt(available)) || !l.Equal(decimal.NewFromInt(locked)) {
		t.Fatalf("%s %s: available=%s locked=%s, want %d/%d", account, asset, a, l, available, locked)
	}
}

func (f *fixture) count(t *testing.T) uint64 {
	t.Helper()
	n, err := gormdb.NewLoanRepository(f.db).Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func gntForDGD(borrower string) CreateLoanInput {
	return CreateLoanInput{
		Borrower:         borrower,
		CollateralAsset:  "GNT",
		CollateralAmount: decimal.NewFromInt(100),
		LoanAsset:        "DGD",
		LoanAmount:       decimal.NewFromInt(10),
		DurationDays:     1,
	}
}

func withdrawal(account, asset string, amount int64) escrow.MovementInput {
	return escrow.MovementInput{Account: account, Asset: asset, Amount: decimal.NewFromInt(amount)}
}

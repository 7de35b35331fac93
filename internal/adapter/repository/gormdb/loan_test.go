package gormdb

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "loan-registry/internal/domain/loan"

	"gorm.io/gorm"
)

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(0, "alice")
	insertLoan(t, repo, l)
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, 0)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != 0 || got.Borrower != "alice" || got.Status != loanDomain.StatusCreated {
		t.Errorf("unexpected loan: %+v", got)
	}
	if !got.CollateralAmount.Equal(l.CollateralAmount.Decimal) || !got.LoanAmount.Equal(l.LoanAmount.Decimal) {
		t.Errorf("amounts not round-tripped: %s / %s", got.CollateralAmount, got.LoanAmount)
	}
}

func TestSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(0, "alice")
	insertLoan(t, repo, l)

	funded := time.Now().UTC()
	l.Lender = "bob"
	l.FundedAt = &funded
	if err := l.Transition(loanDomain.StatusFunded, funded); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanIDForUpdate(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
	if got.Status != loanDomain.StatusFunded || got.Lender != "bob" || got.FundedAt == nil {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.ClosedAt != nil {
		t.Errorf("funded loan must not be closed: %v", got.ClosedAt)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByLoanID(ctx, 42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := repo.GetByLoanIDForUpdate(ctx, 42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound (for update), got %v", err)
	}
}

func TestCounter_StartsAtZeroAndAdvances(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	if n, err := repo.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count on fresh db = %d, %v", n, err)
	}
	for want := uint64(0); want < 3; want++ {
		l := makeLoan(0, "alice")
		insertLoan(t, repo, l)
		if l.LoanID != want {
			t.Fatalf("loan id = %d, want %d", l.LoanID, want)
		}
	}
	if n, err := repo.Count(ctx); err != nil || n != 3 {
		t.Fatalf("Count = %d, %v; want 3", n, err)
	}
}

func TestAdvanceCounter_RejectsGap(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	// counter is 0: advancing to 2 would skip id 1
	if err := repo.AdvanceCounter(ctx, 2); !errors.Is(err, errCounterMoved) {
		t.Fatalf("want errCounterMoved, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("counter changed to %d", n)
	}
}

func TestList_FiltersAndOrders(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	insertLoan(t, repo, makeLoan(0, "alice"))
	insertLoan(t, repo, makeLoan(0, "bob"))
	insertLoan(t, repo, makeLoan(0, "alice"))

	funded := makeLoan(0, "carol")
	insertLoan(t, repo, funded)
	funded.Lender = "dave"
	if err := funded.Transition(loanDomain.StatusFunded, time.Now().UTC()); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, funded); err != nil {
		t.Fatal(err)
	}

	all, err := repo.List(ctx, loanDomain.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(all) = %d, want 4", len(all))
	}
	for i := range all {
		if all[i].LoanID != uint64(i) {
			t.Fatalf("not ordered by loan_id: %d at %d", all[i].LoanID, i)
		}
	}

	alice, _ := repo.List(ctx, loanDomain.Filter{Borrower: "alice"})
	if len(alice) != 2 || alice[0].LoanID != 0 || alice[1].LoanID != 2 {
		t.Fatalf("borrower filter: %+v", alice)
	}

	byLender, _ := repo.List(ctx, loanDomain.Filter{Lender: "dave"})
	if len(byLender) != 1 || byLender[0].LoanID != 3 {
		t.Fatalf("lender filter: %+v", byLender)
	}

	created, _ := repo.List(ctx, loanDomain.Filter{Status: loanDomain.StatusCreated})
	if len(created) != 3 {
		t.Fatalf("status filter: got %d", len(created))
	}

	page, _ := repo.List(ctx, loanDomain.Filter{Limit: 2, Offset: 1})
	if len(page) != 2 || page[0].LoanID != 1 || page[1].LoanID != 2 {
		t.Fatalf("paging: %+v", page)
	}
}

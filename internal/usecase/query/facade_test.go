package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/loan"
	"loan-registry/internal/testutil/journalmock"
	"loan-registry/internal/testutil/loanmock"
	"loan-registry/pkg/amount"

	"gorm.io/gorm"
)

func storedLoan(id uint64) *loan.Loan {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &loan.Loan{
		LoanID:           id,
		Borrower:         "alice",
		CollateralAsset:  "GNT",
		CollateralAmount: amount.FromInt(100),
		LoanAsset:        "DGD",
		LoanAmount:       amount.FromInt(10),
		DurationDays:     2,
		Status:           loan.StatusCreated,
		CreatedAt:        created,
	}
}

func TestLoanCount(t *testing.T) {
	f := NewFacade(&loanmock.Repo{CountFn: func(context.Context) (uint64, error) { return 3, nil }}, &journalmock.Repo{})
	n, err := f.LoanCount(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("LoanCount = %d, %v", n, err)
	}
}

func TestGetLoan(t *testing.T) {
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, id uint64) (*loan.Loan, error) {
			if id == 0 {
				return storedLoan(0), nil
			}
			return &loan.Loan{}, gorm.ErrRecordNotFound
		},
	}
	f := NewFacade(repo, &journalmock.Repo{})

	dto, err := f.GetLoan(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetLoan: %v", err)
	}
	if dto.Borrower != "alice" || dto.Status != "created" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if !dto.DueAt.Equal(dto.CreatedAt.Add(48 * time.Hour)) {
		t.Fatalf("due at = %s", dto.DueAt)
	}

	if _, err := f.GetLoan(context.Background(), 1); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetLoan_RepoErrorPassesThrough(t *testing.T) {
	sentinel := errors.New("db down")
	f := NewFacade(&loanmock.Repo{
		GetByLoanIDFn: func(context.Context, uint64) (*loan.Loan, error) { return nil, sentinel },
	}, &journalmock.Repo{})
	if _, err := f.GetLoan(context.Background(), 0); !errors.Is(err, sentinel) {
		t.Fatalf("want %v, got %v", sentinel, err)
	}
}

func TestListLoans_LimitsAndFilters(t *testing.T) {
	var got loan.Filter
	repo := &loanmock.Repo{
		ListFn: func(_ context.Context, f loan.Filter) ([]loan.Loan, error) {
			got = f
			return []loan.Loan{*storedLoan(0), *storedLoan(1)}, nil
		},
	}
	f := NewFacade(repo, &journalmock.Repo{})
	ctx := context.Background()

	list, err := f.ListLoans(ctx, ListFilter{Borrower: "alice", Status: "created"})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(list) != 2 || list[1].LoanID != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if got.Limit != defaultListLimit || got.Borrower != "alice" || got.Status != loan.StatusCreated {
		t.Fatalf("filter not applied: %+v", got)
	}

	if _, err := f.ListLoans(ctx, ListFilter{Limit: 5000}); err != nil {
		t.Fatal(err)
	}
	if got.Limit != maxListLimit {
		t.Fatalf("limit = %d, want cap %d", got.Limit, maxListLimit)
	}

	if _, err := f.ListLoans(ctx, ListFilter{Status: "pending"}); !errors.Is(err, loan.ErrInvalidParameter) {
		t.Fatalf("unknown status: want ErrInvalidParameter, got %v", err)
	}
	if _, err := f.ListLoans(ctx, ListFilter{Offset: -1}); !errors.Is(err, loan.ErrInvalidParameter) {
		t.Fatalf("negative offset: want ErrInvalidParameter, got %v", err)
	}
}

func TestLoanJournal(t *testing.T) {
	id0 := uint64(0)
	repo := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, id uint64) (*loan.Loan, error) {
			if id == 0 {
				return storedLoan(0), nil
			}
			return &loan.Loan{}, gorm.ErrRecordNotFound
		},
	}
	jr := &journalmock.Repo{
		ListByLoanIDFn: func(_ context.Context, id uint64) ([]journal.Entry, error) {
			return []journal.Entry{{TxID: "t", Op: journal.OpCreate, Kind: journal.KindLock, LoanID: &id0}}, nil
		},
	}
	f := NewFacade(repo, jr)

	entries, err := f.LoanJournal(context.Background(), 0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("LoanJournal = %+v, %v", entries, err)
	}
	if _, err := f.LoanJournal(context.Background(), 9); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestTxJournal(t *testing.T) {
	jr := &journalmock.Repo{
		ListByTxIDFn: func(_ context.Context, txID string) ([]journal.Entry, error) {
			if txID != "known" {
				return nil, nil
			}
			return []journal.Entry{
				{TxID: txID, Op: journal.OpRepay, Kind: journal.KindTransfer},
				{TxID: txID, Op: journal.OpRepay, Kind: journal.KindRelease},
			}, nil
		},
	}
	f := NewFacade(&loanmock.Repo{}, jr)

	entries, err := f.TxJournal(context.Background(), "known")
	if err != nil || len(entries) != 2 || entries[1].Kind != journal.KindRelease {
		t.Fatalf("TxJournal = %+v, %v", entries, err)
	}
	if _, err := f.TxJournal(context.Background(), "missing"); !errors.Is(err, journal.ErrNotFound) {
		t.Fatalf("want journal.ErrNotFound, got %v", err)
	}

	sentinel := errors.New("db down")
	jr.ListByTxIDFn = func(context.Context, string) ([]journal.Entry, error) { return nil, sentinel }
	if _, err := f.TxJournal(context.Background(), "known"); !errors.Is(err, sentinel) {
		t.Fatalf("want %v, got %v", sentinel, err)
	}
}

package journalmock

import (
	"context"
	"errors"
	"testing"

	domain "loan-registry/internal/domain/journal"
)

func TestRepo_AppendRecordsByDefault(t *testing.T) {
	m := &Repo{}
	if err := m.Append(context.Background(), &domain.Entry{TxID: "t1", Kind: domain.KindLock}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(m.Entries) != 1 || m.Entries[0].Kind != domain.KindLock {
		t.Fatalf("entry not recorded: %+v", m.Entries)
	}
}

func TestRepo_AppendFn(t *testing.T) {
	sentinel := errors.New("full")
	m := &Repo{AppendFn: func(context.Context, *domain.Entry) error { return sentinel }}
	if err := m.Append(context.Background(), &domain.Entry{}); !errors.Is(err, sentinel) {
		t.Fatalf("want %v, got %v", sentinel, err)
	}
	if len(m.Entries) != 0 {
		t.Fatalf("AppendFn should bypass recording")
	}
}

func TestRepo_ListDefaults(t *testing.T) {
	m := &Repo{}
	if _, err := m.ListByLoanID(context.Background(), 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListByLoanID default: %v", err)
	}
	if _, err := m.ListByTxID(context.Background(), "t"); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListByTxID default: %v", err)
	}
}

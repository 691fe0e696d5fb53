package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"airtime_agent/internal/storage"

	"github.com/shopspring/decimal"
)

func openTestStore(t *testing.T) *SQLiteTransactionStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "transactions.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.db")

	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Append(context.Background(), "+254700000001", decimal.NewFromInt(10), "KES"); err != nil {
		t.Fatal(err)
	}
	first.Close()

	// Reopening must keep the existing rows and not recreate the table.
	second, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	count, err := second.CountFor(context.Background(), "+254700000001")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count after reopen = %d, want 1", count)
	}
}

func TestAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	before := time.Now().Add(-time.Second)
	numbers := []string{"+254700000001", "+254700000002", "+254700000003"}
	for i, number := range numbers {
		amount := decimal.NewFromInt(int64(10 * (i + 1)))
		if err := store.Append(ctx, number, amount, "KES"); err != nil {
			t.Fatal(err)
		}
	}
	after := time.Now().Add(time.Second)

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d transactions, want 2", len(recent))
	}
	if recent[0].PhoneNumber != "+254700000003" || recent[1].PhoneNumber != "+254700000002" {
		t.Errorf("wrong order: %q then %q", recent[0].PhoneNumber, recent[1].PhoneNumber)
	}
	if recent[0].Amount.StringFixed(2) != "30.00" {
		t.Errorf("amount = %s, want 30.00", recent[0].Amount.StringFixed(2))
	}
	for _, transaction := range recent {
		if transaction.TransactionTime.Before(before) || transaction.TransactionTime.After(after) {
			t.Errorf("transaction_time %v outside [%v, %v]", transaction.TransactionTime, before, after)
		}
	}

	all, err := store.Recent(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d transactions, want 3", len(all))
	}
}

func TestRecentTieBreakByID(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	// Rows written with identical timestamps must come back newest insert first.
	shared := time.Now()
	const query = `INSERT INTO transactions (phone_number, amount, currency_code, transaction_time)
	VALUES (?, ?, ?, ?)`
	for _, number := range []string{"+254700000001", "+254700000002"} {
		if _, err := store.db.ExecContext(ctx, query, number, 10.0, "KES", shared); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if recent[0].PhoneNumber != "+254700000002" || recent[1].PhoneNumber != "+254700000001" {
		t.Errorf("tie-break order wrong: %q then %q", recent[0].PhoneNumber, recent[1].PhoneNumber)
	}
	if recent[0].ID <= recent[1].ID {
		t.Errorf("ids not descending: %d then %d", recent[0].ID, recent[1].ID)
	}
}

func TestRecentEmptyAndInvalidLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	recent, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Fatalf("got %d transactions, want 0", len(recent))
	}

	if _, err := store.Recent(ctx, 0); !errors.Is(err, storage.ErrInvalidLimit) {
		t.Errorf("got %v, want ErrInvalidLimit", err)
	}
}

func TestSumRecent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, amount := range []string{"10.50", "20.25"} {
		value, _ := decimal.NewFromString(amount)
		if err := store.Append(ctx, "+254700000001", value, "KES"); err != nil {
			t.Fatal(err)
		}
	}

	currency, total, err := store.SumRecent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if currency != "KES" || total.StringFixed(2) != "30.75" {
		t.Errorf("got %s %s, want KES 30.75", currency, total.StringFixed(2))
	}

	if err := store.Append(ctx, "+254700000001", decimal.NewFromInt(5), "USD"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.SumRecent(ctx, 3); !errors.Is(err, storage.ErrMixedCurrencies) {
		t.Errorf("got %v, want ErrMixedCurrencies", err)
	}
}

func TestSumRecentEmptyAndInvalidLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, _, err := store.SumRecent(ctx, 3); !errors.Is(err, storage.ErrNoTransactions) {
		t.Errorf("got %v, want ErrNoTransactions", err)
	}
	if _, _, err := store.SumRecent(ctx, -2); !errors.Is(err, storage.ErrInvalidLimit) {
		t.Errorf("got %v, want ErrInvalidLimit", err)
	}
}

func TestCountFor(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	store.Append(ctx, "+254700000001", decimal.NewFromInt(10), "KES")
	store.Append(ctx, "+254700000001", decimal.NewFromInt(10), "KES")
	store.Append(ctx, "+254700000002", decimal.NewFromInt(10), "KES")

	count, err := store.CountFor(ctx, "+254700000001")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	none, err := store.CountFor(ctx, "+254799999999")
	if err != nil {
		t.Fatal(err)
	}
	if none != 0 {
		t.Errorf("count = %d, want 0", none)
	}
}

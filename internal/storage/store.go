package storage

import (
	"context"
	"errors"

	"airtime_agent/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidLimit is returned when a caller asks for a non-positive window.
	ErrInvalidLimit = errors.New("limit must be greater than zero")
	// ErrNoTransactions is returned by SumRecent when the log is empty.
	ErrNoTransactions = errors.New("no transactions recorded")
	// ErrMixedCurrencies is returned by SumRecent when the requested window
	// spans more than one currency code.
	ErrMixedCurrencies = errors.New("cannot sum amounts with different currencies")
)

// TransactionStore is the durable append-only log of disbursements. Phone
// numbers given to Append and CountFor must already be normalized; the store
// never touches formatting. Each call is its own unit of work, committed
// before it returns.
type TransactionStore interface {
	// Append records one disbursement with a store-assigned id and timestamp.
	Append(ctx context.Context, phoneNumber string, amount decimal.Decimal, currencyCode string) error

	// Recent returns up to limit transactions, newest first (transaction_time
	// descending, id descending on ties). An empty log yields an empty slice,
	// not an error.
	Recent(ctx context.Context, limit int) ([]models.Transaction, error)

	// SumRecent totals the n most recent transactions. It fails with
	// ErrMixedCurrencies when the window holds more than one currency and
	// ErrNoTransactions when the log is empty; otherwise it returns the
	// shared currency code and the sum.
	SumRecent(ctx context.Context, n int) (string, decimal.Decimal, error)

	// CountFor returns how many transactions exist for the given normalized
	// phone number, zero included.
	CountFor(ctx context.Context, phoneNumber string) (int64, error)
}

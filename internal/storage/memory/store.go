package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"airtime_agent/internal/models"
	"airtime_agent/internal/storage"

	"github.com/shopspring/decimal"
)

// MemoryTransactionStore is an in-memory implementation of
// storage.TransactionStore, used in tests in place of the SQLite store.
type MemoryTransactionStore struct {
	mu           sync.Mutex
	nextID       int64
	transactions []models.Transaction
}

func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{
		nextID:       1,
		transactions: make([]models.Transaction, 0),
	}
}

func (m *MemoryTransactionStore) Append(ctx context.Context, phoneNumber string, amount decimal.Decimal, currencyCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = append(m.transactions, models.Transaction{
		ID:              m.nextID,
		PhoneNumber:     phoneNumber,
		Amount:          amount,
		CurrencyCode:    currencyCode,
		TransactionTime: time.Now(),
	})
	m.nextID++
	return nil
}

// recentLocked returns transactions newest first, transaction_time descending
// with id descending on ties, matching the SQLite ordering. Caller holds mu.
func (m *MemoryTransactionStore) recentLocked(limit int) []models.Transaction {
	sorted := make([]models.Transaction, len(m.transactions))
	copy(sorted, m.transactions)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].TransactionTime.Equal(sorted[j].TransactionTime) {
			return sorted[i].TransactionTime.After(sorted[j].TransactionTime)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

func (m *MemoryTransactionStore) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recentLocked(limit), nil
}

func (m *MemoryTransactionStore) SumRecent(ctx context.Context, n int) (string, decimal.Decimal, error) {
	if n <= 0 {
		return "", decimal.Zero, storage.ErrInvalidLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	window := m.recentLocked(n)
	if len(window) == 0 {
		return "", decimal.Zero, storage.ErrNoTransactions
	}

	total := decimal.Zero
	currency := window[0].CurrencyCode
	for _, transaction := range window {
		if transaction.CurrencyCode != currency {
			return "", decimal.Zero, storage.ErrMixedCurrencies
		}
		total = total.Add(transaction.Amount)
	}
	return currency, total, nil
}

func (m *MemoryTransactionStore) CountFor(ctx context.Context, phoneNumber string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, transaction := range m.transactions {
		if transaction.PhoneNumber == phoneNumber {
			count++
		}
	}
	return count, nil
}

var _ storage.TransactionStore = (*MemoryTransactionStore)(nil)

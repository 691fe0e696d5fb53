package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"airtime_agent/internal/models"
	"airtime_agent/internal/storage"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

type SQLiteTransactionStore struct {
	db *sql.DB
}

// Open connects to the SQLite database at path and creates the transactions
// table if it does not exist yet. Safe to call on every startup.
func Open(path string) (*SQLiteTransactionStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping transactions database: %w", err)
	}

	store := &SQLiteTransactionStore{db: db}
	if err = store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize transactions schema: %w", err)
	}
	return store, nil
}

func NewSQLiteTransactionStore(db *sql.DB) *SQLiteTransactionStore {
	return &SQLiteTransactionStore{db: db}
}

func (s *SQLiteTransactionStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phone_number TEXT NOT NULL,
		amount REAL NOT NULL,
		currency_code TEXT NOT NULL,
		transaction_time TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_time ON transactions (transaction_time DESC, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteTransactionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteTransactionStore) Append(ctx context.Context, phoneNumber string, amount decimal.Decimal, currencyCode string) error {
	const query = `INSERT INTO transactions (phone_number, amount, currency_code, transaction_time)
	VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, phoneNumber, amount, currencyCode, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (s *SQLiteTransactionStore) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidLimit
	}

	const query = `SELECT id, phone_number, amount, currency_code, transaction_time
	FROM transactions
	ORDER BY transaction_time DESC, id DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var transaction models.Transaction
		err = rows.Scan(
			&transaction.ID,
			&transaction.PhoneNumber,
			&transaction.Amount,
			&transaction.CurrencyCode,
			&transaction.TransactionTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *SQLiteTransactionStore) SumRecent(ctx context.Context, n int) (string, decimal.Decimal, error) {
	if n <= 0 {
		return "", decimal.Zero, storage.ErrInvalidLimit
	}

	const query = `SELECT amount, currency_code
	FROM transactions
	ORDER BY transaction_time DESC, id DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	currency := ""
	for rows.Next() {
		var amount decimal.Decimal
		var code string
		if err = rows.Scan(&amount, &code); err != nil {
			return "", decimal.Zero, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if currency == "" {
			currency = code
		} else if code != currency {
			return "", decimal.Zero, storage.ErrMixedCurrencies
		}
		total = total.Add(amount)
	}
	if err = rows.Err(); err != nil {
		return "", decimal.Zero, err
	}
	if currency == "" {
		return "", decimal.Zero, storage.ErrNoTransactions
	}
	return currency, total, nil
}

func (s *SQLiteTransactionStore) CountFor(ctx context.Context, phoneNumber string) (int64, error) {
	const query = `SELECT COUNT(*) FROM transactions WHERE phone_number = ?`

	var count int64
	err := s.db.QueryRowContext(ctx, query, phoneNumber).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

var _ storage.TransactionStore = (*SQLiteTransactionStore)(nil)

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one recorded airtime disbursement. Rows are written once by
// the airtime service after a successful vendor send and never updated.
type Transaction struct {
	ID              int64           `json:"id,omitempty" db:"id,omitempty"`
	PhoneNumber     string          `json:"phone_number" db:"phone_number"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	CurrencyCode    string          `json:"currency_code" db:"currency_code"`
	TransactionTime time.Time       `json:"transaction_time" db:"transaction_time"`
}

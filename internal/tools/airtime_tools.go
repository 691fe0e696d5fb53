package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"airtime_agent/internal/services"
	"airtime_agent/internal/storage"
)

const timeLayout = "2006-01-02 15:04:05"

const defaultWindow = 3

// CheckBalanceTool reports the vendor account balance.
type CheckBalanceTool struct {
	service *services.AirtimeService
}

func NewCheckBalanceTool(service *services.AirtimeService) *CheckBalanceTool {
	return &CheckBalanceTool{service: service}
}

func (t *CheckBalanceTool) Name() string {
	return "check_balance"
}

func (t *CheckBalanceTool) Description() string {
	return "Checks the airtime balance of the Africa's Talking account."
}

func (t *CheckBalanceTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *CheckBalanceTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	balance, err := t.service.Balance(ctx)
	if err != nil {
		if errors.Is(err, services.ErrBalanceUnavailable) {
			return "Balance information not available at the moment. Try again later.", nil
		}
		return fmt.Sprintf("Error fetching balance: %v", err), nil
	}
	return fmt.Sprintf("Account Balance: %s", balance), nil
}

// LoadAirtimeTool sends airtime to a phone number and records the transaction.
type LoadAirtimeTool struct {
	service         *services.AirtimeService
	defaultCurrency string
}

func NewLoadAirtimeTool(service *services.AirtimeService, defaultCurrency string) *LoadAirtimeTool {
	return &LoadAirtimeTool{service: service, defaultCurrency: defaultCurrency}
}

func (t *LoadAirtimeTool) Name() string {
	return "load_airtime"
}

func (t *LoadAirtimeTool) Description() string {
	return "Sends airtime to a specified phone number and logs the transaction."
}

func (t *LoadAirtimeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phone_number": map[string]any{
				"type":        "string",
				"description": "The recipient's phone number, local or international format.",
			},
			"amount": map[string]any{
				"type":        "number",
				"description": "The amount of airtime to send.",
			},
			"currency_code": map[string]any{
				"type":        "string",
				"description": "The currency for the transaction (e.g. KES). Defaults to the configured currency.",
			},
		},
		"required": []string{"phone_number", "amount"},
	}
}

func (t *LoadAirtimeTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	phoneNumber, ok := stringArg(args, "phone_number")
	if !ok {
		return "", fmt.Errorf("phone_number is required")
	}
	amount, ok := decimalArg(args, "amount")
	if !ok {
		return "", fmt.Errorf("amount is required")
	}
	currencyCode, ok := stringArg(args, "currency_code")
	if !ok {
		currencyCode = t.defaultCurrency
	}
	if currencyCode == "" {
		return "", fmt.Errorf("currency_code is required")
	}

	formattedNumber, err := t.service.Disburse(ctx, phoneNumber, amount, currencyCode)
	if err != nil {
		return fmt.Sprintf("Encountered an error while sending airtime: %v", err), nil
	}
	return fmt.Sprintf("Successfully sent %s %s airtime to %s", currencyCode, amount.String(), formattedNumber), nil
}

// GetLastTopupsTool lists the most recent recorded top-ups.
type GetLastTopupsTool struct {
	store storage.TransactionStore
}

func NewGetLastTopupsTool(store storage.TransactionStore) *GetLastTopupsTool {
	return &GetLastTopupsTool{store: store}
}

func (t *GetLastTopupsTool) Name() string {
	return "get_last_topups"
}

func (t *GetLastTopupsTool) Description() string {
	return "Retrieves the last N top-up transactions, newest first."
}

func (t *GetLastTopupsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "The number of recent transactions to fetch. Defaults to 3.",
			},
		},
	}
}

func (t *GetLastTopupsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	limit, ok := intArg(args, "limit", defaultWindow)
	if !ok {
		return "", fmt.Errorf("limit must be an integer")
	}

	transactions, err := t.store.Recent(ctx, limit)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidLimit) {
			return "Please provide a positive number of top-ups to fetch.", nil
		}
		return fmt.Sprintf("Error fetching top-ups: %v", err), nil
	}
	if len(transactions) == 0 {
		return "No top-up transactions found.", nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Last %d top-up transactions:\n", limit)
	for _, transaction := range transactions {
		fmt.Fprintf(&result, "- %s: %s %s to %s\n",
			transaction.TransactionTime.Format(timeLayout),
			transaction.CurrencyCode,
			transaction.Amount.StringFixed(2),
			transaction.PhoneNumber,
		)
	}
	return result.String(), nil
}

// SumLastNTopupsTool totals the n most recent top-ups when they share one currency.
type SumLastNTopupsTool struct {
	store storage.TransactionStore
}

func NewSumLastNTopupsTool(store storage.TransactionStore) *SumLastNTopupsTool {
	return &SumLastNTopupsTool{store: store}
}

func (t *SumLastNTopupsTool) Name() string {
	return "sum_last_n_topups"
}

func (t *SumLastNTopupsTool) Description() string {
	return "Calculates the sum of the last n successful top-ups, provided they share one currency."
}

func (t *SumLastNTopupsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"n": map[string]any{
				"type":        "integer",
				"description": "The number of recent top-ups to sum. Defaults to 3.",
			},
		},
	}
}

func (t *SumLastNTopupsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	n, ok := intArg(args, "n", defaultWindow)
	if !ok {
		return "", fmt.Errorf("n must be an integer")
	}
	if n <= 0 {
		return "Please provide the number of top-ups whose total you need.", nil
	}

	currency, total, err := t.store.SumRecent(ctx, n)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNoTransactions):
			return "No successful top-ups found.", nil
		case errors.Is(err, storage.ErrMixedCurrencies):
			return "Cannot sum amounts with different currencies.", nil
		default:
			return fmt.Sprintf("Error calculating sum: %v", err), nil
		}
	}
	return fmt.Sprintf("Sum of last %d successful top-ups:\n- %s %s", n, currency, total.StringFixed(2)), nil
}

// CountTopupsByNumberTool counts recorded top-ups for one phone number.
type CountTopupsByNumberTool struct {
	service *services.AirtimeService
}

func NewCountTopupsByNumberTool(service *services.AirtimeService) *CountTopupsByNumberTool {
	return &CountTopupsByNumberTool{service: service}
}

func (t *CountTopupsByNumberTool) Name() string {
	return "count_topups_by_number"
}

func (t *CountTopupsByNumberTool) Description() string {
	return "Counts the number of top-ups sent to a specific phone number."
}

func (t *CountTopupsByNumberTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phone_number": map[string]any{
				"type":        "string",
				"description": "The phone number to count transactions for.",
			},
		},
		"required": []string{"phone_number"},
	}
}

func (t *CountTopupsByNumberTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	phoneNumber, ok := stringArg(args, "phone_number")
	if !ok {
		return "", fmt.Errorf("phone_number is required")
	}

	formattedNumber, count, err := t.service.CountTopups(ctx, phoneNumber)
	if err != nil {
		return fmt.Sprintf("Error counting top-ups: %v", err), nil
	}
	return fmt.Sprintf("Number of successful top-ups to %s: %d", formattedNumber, count), nil
}

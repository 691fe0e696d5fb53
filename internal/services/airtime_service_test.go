package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"airtime_agent/internal/phone"
	"airtime_agent/internal/storage/memory"

	"github.com/shopspring/decimal"
)

type fakeSender struct {
	sendErr   error
	sentTo    []string
	appData   *ApplicationData
	fetchErr  error
	sendCalls int
}

func (f *fakeSender) SendAirtime(ctx context.Context, phoneNumber string, amount decimal.Decimal, currencyCode string) (*AirtimeSendResponse, error) {
	f.sendCalls++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentTo = append(f.sentTo, phoneNumber)
	return &AirtimeSendResponse{
		ErrorMessage: "None",
		NumSent:      1,
		Responses: []AirtimeRecipientResult{
			{PhoneNumber: phoneNumber, Status: "Sent", ErrorMessage: "None"},
		},
	}, nil
}

func (f *fakeSender) FetchApplicationData(ctx context.Context) (*ApplicationData, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.appData, nil
}

func TestDisburseRecordsExactlyOneTransaction(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	store := memory.NewMemoryTransactionStore()
	service := NewAirtimeService(sender, store, "kenya")

	before := time.Now().Add(-time.Second)
	formatted, err := service.Disburse(ctx, "0712345678", decimal.NewFromInt(50), "KES")
	after := time.Now().Add(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if formatted != "+254712345678" {
		t.Errorf("formatted = %q, want +254712345678", formatted)
	}
	if len(sender.sentTo) != 1 || sender.sentTo[0] != "+254712345678" {
		t.Errorf("vendor received %v, want the normalized number", sender.sentTo)
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Fatalf("got %d records, want exactly 1", len(recent))
	}
	record := recent[0]
	if record.PhoneNumber != "+254712345678" {
		t.Errorf("stored number = %q, want normalized form", record.PhoneNumber)
	}
	if !record.Amount.Equal(decimal.NewFromInt(50)) || record.CurrencyCode != "KES" {
		t.Errorf("stored %s %s, want KES 50", record.CurrencyCode, record.Amount)
	}
	if record.TransactionTime.Before(before) || record.TransactionTime.After(after) {
		t.Errorf("transaction_time %v outside call window", record.TransactionTime)
	}
}

func TestDisburseRemoteFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{sendErr: fmt.Errorf("API error: insufficient balance")}
	store := memory.NewMemoryTransactionStore()
	service := NewAirtimeService(sender, store, "kenya")

	_, err := service.Disburse(ctx, "0712345678", decimal.NewFromInt(50), "KES")
	if err == nil {
		t.Fatal("expected error from remote failure")
	}

	recent, _ := store.Recent(ctx, 10)
	if len(recent) != 0 {
		t.Fatalf("got %d records after failed send, want 0", len(recent))
	}
}

func TestDisburseUnsupportedCountrySkipsSend(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	store := memory.NewMemoryTransactionStore()
	service := NewAirtimeService(sender, store, "atlantis")

	_, err := service.Disburse(ctx, "0712345678", decimal.NewFromInt(50), "KES")

	var unsupported *phone.UnsupportedCountryError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedCountryError, got %v", err)
	}
	if sender.sendCalls != 0 {
		t.Errorf("vendor called %d times for an unnormalizable number, want 0", sender.sendCalls)
	}
	recent, _ := store.Recent(ctx, 10)
	if len(recent) != 0 {
		t.Fatalf("got %d records, want 0", len(recent))
	}
}

func TestBalance(t *testing.T) {
	sender := &fakeSender{appData: &ApplicationData{UserData: &UserData{Balance: "KES 1785.50"}}}
	service := NewAirtimeService(sender, memory.NewMemoryTransactionStore(), "kenya")

	balance, err := service.Balance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if balance != "KES 1785.50" {
		t.Errorf("balance = %q, want KES 1785.50", balance)
	}
}

func TestBalanceUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		appData *ApplicationData
	}{
		{"nil payload", nil},
		{"missing user data", &ApplicationData{}},
		{"blank balance", &ApplicationData{UserData: &UserData{}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{appData: tc.appData}
			service := NewAirtimeService(sender, memory.NewMemoryTransactionStore(), "kenya")

			_, err := service.Balance(context.Background())
			if !errors.Is(err, ErrBalanceUnavailable) {
				t.Errorf("got %v, want ErrBalanceUnavailable", err)
			}
		})
	}
}

func TestBalanceRemoteFailure(t *testing.T) {
	sender := &fakeSender{fetchErr: fmt.Errorf("connection refused")}
	service := NewAirtimeService(sender, memory.NewMemoryTransactionStore(), "kenya")

	_, err := service.Balance(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrBalanceUnavailable) {
		t.Error("transport failure must be distinct from an absent balance field")
	}
}

func TestCountTopupsNormalizesInput(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	store := memory.NewMemoryTransactionStore()
	service := NewAirtimeService(sender, store, "kenya")

	if _, err := service.Disburse(ctx, "0712345678", decimal.NewFromInt(10), "KES"); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Disburse(ctx, "+254712345678", decimal.NewFromInt(20), "KES"); err != nil {
		t.Fatal(err)
	}

	formatted, count, err := service.CountTopups(ctx, "0712345678")
	if err != nil {
		t.Fatal(err)
	}
	if formatted != "+254712345678" {
		t.Errorf("formatted = %q", formatted)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2: raw and international input map to one number", count)
	}
}

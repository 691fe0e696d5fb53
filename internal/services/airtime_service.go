package services

import (
	"context"
	"errors"

	"airtime_agent/internal/phone"
	"airtime_agent/internal/storage"
	"airtime_agent/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrBalanceUnavailable means the vendor responded but the balance field was
// missing from the payload, as opposed to the call itself failing.
var ErrBalanceUnavailable = errors.New("balance information not available")

// AirtimeSender is the vendor surface the service depends on, satisfied by
// AfricasTalkingClient and by fakes in tests.
type AirtimeSender interface {
	SendAirtime(ctx context.Context, phoneNumber string, amount decimal.Decimal, currencyCode string) (*AirtimeSendResponse, error)
	FetchApplicationData(ctx context.Context) (*ApplicationData, error)
}

type AirtimeService struct {
	sender  AirtimeSender
	store   storage.TransactionStore
	country string
}

// NewAirtimeService wires the vendor sender, the transaction store and the
// single disbursement country numbers are formatted for.
func NewAirtimeService(sender AirtimeSender, store storage.TransactionStore, country string) *AirtimeService {
	return &AirtimeService{
		sender:  sender,
		store:   store,
		country: country,
	}
}

// Disburse normalizes the phone number, sends the airtime and records the
// transaction, returning the normalized number. A record is written only
// after the vendor call succeeds; on any vendor failure nothing persists.
// The send and the local append are not atomic: if the append fails (or the
// process dies between the two), the airtime is gone but no record exists.
// That gap is accepted for this ledger rather than papered over.
func (s *AirtimeService) Disburse(ctx context.Context, phoneNumber string, amount decimal.Decimal, currencyCode string) (string, error) {
	formattedNumber, err := phone.Normalize(phoneNumber, s.country)
	if err != nil {
		return "", err
	}

	if _, err = s.sender.SendAirtime(ctx, formattedNumber, amount, currencyCode); err != nil {
		return "", utils.ErrorHandler(err, "airtime send failed")
	}

	if err = s.store.Append(ctx, formattedNumber, amount, currencyCode); err != nil {
		return "", utils.ErrorHandler(err, "airtime sent but transaction was not recorded")
	}

	utils.Logger.WithFields(logrus.Fields{
		"phone_number": formattedNumber,
		"amount":       amount.String(),
		"currency":     currencyCode,
	}).Info("airtime disbursed")

	return formattedNumber, nil
}

// Balance fetches the account balance from the vendor. A response without a
// balance field yields ErrBalanceUnavailable.
func (s *AirtimeService) Balance(ctx context.Context) (string, error) {
	data, err := s.sender.FetchApplicationData(ctx)
	if err != nil {
		return "", utils.ErrorHandler(err, "failed to fetch application data")
	}
	if data == nil || data.UserData == nil || data.UserData.Balance == "" {
		return "", ErrBalanceUnavailable
	}
	return data.UserData.Balance, nil
}

// CountTopups normalizes the given number and counts recorded disbursements
// to it. Stored numbers are always normalized, so a raw local-format input
// still matches its own history.
func (s *AirtimeService) CountTopups(ctx context.Context, phoneNumber string) (string, int64, error) {
	formattedNumber, err := phone.Normalize(phoneNumber, s.country)
	if err != nil {
		return "", 0, err
	}

	count, err := s.store.CountFor(ctx, formattedNumber)
	if err != nil {
		return "", 0, err
	}
	return formattedNumber, count, nil
}

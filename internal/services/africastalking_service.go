package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AfricasTalkingClient struct {
	Username string
	APIKey   string
	BaseURL  string
	Client   *http.Client
}

func NewAfricasTalkingClient(username, apiKey string) (*AfricasTalkingClient, error) {
	if username == "" {
		return nil, fmt.Errorf("AT_USERNAME environment variable is not set")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("AT_API_KEY environment variable is not set")
	}
	return &AfricasTalkingClient{
		Username: username,
		APIKey:   apiKey,
		BaseURL:  "https://api.africastalking.com",
		Client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type AirtimeRecipientResult struct {
	PhoneNumber  string `json:"phoneNumber"`
	Amount       string `json:"amount"`
	Discount     string `json:"discount"`
	Status       string `json:"status"`
	RequestID    string `json:"requestId"`
	ErrorMessage string `json:"errorMessage"`
}

type AirtimeSendResponse struct {
	ErrorMessage  string                   `json:"errorMessage"`
	NumSent       int                      `json:"numSent"`
	TotalAmount   string                   `json:"totalAmount"`
	TotalDiscount string                   `json:"totalDiscount"`
	Responses     []AirtimeRecipientResult `json:"responses"`
}

type UserData struct {
	Balance string `json:"balance"`
}

type ApplicationData struct {
	UserData *UserData `json:"UserData"`
}

func (a *AfricasTalkingClient) doRequest(req *http.Request, out interface{}) error {
	req.Header.Add("apiKey", a.APIKey)
	req.Header.Add("Accept", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// SendAirtime sends one airtime disbursement to a single recipient. The phone
// number must already be in international form. The vendor reports per-recipient
// failures inside a 200 response, so both the top-level and the recipient
// status are checked.
func (a *AfricasTalkingClient) SendAirtime(ctx context.Context, phoneNumber string, amount decimal.Decimal, currencyCode string) (*AirtimeSendResponse, error) {
	recipients, err := json.Marshal([]map[string]string{
		{
			"phoneNumber": phoneNumber,
			"amount":      fmt.Sprintf("%s %s", currencyCode, amount.String()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipients: %w", err)
	}

	form := url.Values{}
	form.Set("username", a.Username)
	form.Set("recipients", string(recipients))

	endpointURL := fmt.Sprintf("%s/version1/airtime/send", a.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	var res AirtimeSendResponse
	if err := a.doRequest(req, &res); err != nil {
		return nil, err
	}

	if res.ErrorMessage != "" && res.ErrorMessage != "None" {
		return nil, fmt.Errorf("API error: %s", res.ErrorMessage)
	}
	if len(res.Responses) == 0 {
		return nil, fmt.Errorf("API error: no recipient result returned")
	}
	recipient := res.Responses[0]
	if recipient.Status != "Sent" {
		if recipient.ErrorMessage != "" && recipient.ErrorMessage != "None" {
			return nil, fmt.Errorf("API error: %s", recipient.ErrorMessage)
		}
		return nil, fmt.Errorf("API error: recipient status %s", recipient.Status)
	}
	return &res, nil
}

// FetchApplicationData fetches the account data for the configured username.
// The balance field may be absent from the response.
func (a *AfricasTalkingClient) FetchApplicationData(ctx context.Context) (*ApplicationData, error) {
	endpointURL := fmt.Sprintf("%s/version1/user?username=%s", a.BaseURL, url.QueryEscape(a.Username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var res ApplicationData
	if err := a.doRequest(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/newrelic/go-agent/v3/newrelic"

	"limo/internal/config"
)

// apiVersion pins the upstream API contract.
const apiVersion = "2024-10-18"

const (
	sandboxHost    = "https://connect.squareupsandbox.com"
	productionHost = "https://connect.squareup.com"
)

// maxExcerptLen bounds how much of an unparseable upstream body is kept for
// diagnostics.
const maxExcerptLen = 200

// BaseURL returns the connect host for the given environment. Unrecognized
// values fall back to sandbox; config validation rejects them before this
// point at startup.
func BaseURL(env config.Environment) string {
	if env == config.EnvProduction {
		return productionHost
	}
	return sandboxHost
}

// Client is a minimal Square REST client covering the two endpoints the relay
// needs: creating payments and listing locations as a connectivity probe.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client targeting baseURL with bearer-token auth.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

// Money is an amount in minor units with its currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreatePaymentRequest is the payload for POST /v2/payments.
type CreatePaymentRequest struct {
	SourceID       string `json:"source_id"`
	AmountMoney    Money  `json:"amount_money"`
	IdempotencyKey string `json:"idempotency_key"`
	Note           string `json:"note,omitempty"`
	ReferenceID    string `json:"reference_id,omitempty"`
	LocationID     string `json:"location_id,omitempty"`
}

// Card carries the subset of card details the relay surfaces.
type Card struct {
	CardBrand string `json:"card_brand"`
	Last4     string `json:"last_4"`
}

// CardDetails wraps the card block of a payment.
type CardDetails struct {
	Card Card `json:"card"`
}

// Payment is the upstream payment object.
type Payment struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	AmountMoney Money        `json:"amount_money"`
	ReceiptURL  string       `json:"receipt_url"`
	CardDetails *CardDetails `json:"card_details"`
}

// Location is an upstream merchant location.
type Location struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ErrorEntry is a single structured upstream error.
type ErrorEntry struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// APIError is a structured rejection from the upstream processor.
type APIError struct {
	StatusCode int
	Errors     []ErrorEntry `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		first := e.Errors[0]
		if first.Detail != "" {
			return fmt.Sprintf("square: %s: %s", first.Code, first.Detail)
		}
		return fmt.Sprintf("square: %s", first.Code)
	}
	return fmt.Sprintf("square: http %d", e.StatusCode)
}

// First returns the first structured error entry, if any.
func (e *APIError) First() (ErrorEntry, bool) {
	if len(e.Errors) == 0 {
		return ErrorEntry{}, false
	}
	return e.Errors[0], true
}

// DecodeError reports an upstream body that could not be parsed as JSON.
// Excerpt is bounded and safe to log.
type DecodeError struct {
	StatusCode int
	Excerpt    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("square: unparseable response (http %d)", e.StatusCode)
}

type createPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type listLocationsResponse struct {
	Locations []Location `json:"locations"`
}

// CreatePayment submits a charge. Exactly one attempt is made; retry policy
// belongs to the caller's client.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/v2/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var result createPaymentResponse
	if err := json.Unmarshal(data, &result); err != nil || result.Payment == nil {
		return nil, &DecodeError{StatusCode: http.StatusOK, Excerpt: excerpt(data)}
	}
	return result.Payment, nil
}

// ListLocations performs a read-only call used to verify credentials.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	data, err := c.do(ctx, http.MethodGet, "/v2/locations", nil)
	if err != nil {
		return nil, err
	}

	var result listLocationsResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &DecodeError{StatusCode: http.StatusOK, Excerpt: excerpt(data)}
	}
	return result.Locations, nil
}

// do executes one request and returns the raw body on 2xx. Non-2xx responses
// with a JSON body become APIError; unparseable bodies become DecodeError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Square-Version", apiVersion)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Instrument the outbound call when a New Relic transaction is present.
	seg := newrelic.StartExternalSegment(newrelic.FromContext(ctx), req)
	resp, err := c.httpClient.Do(req)
	seg.Response = resp
	seg.End()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	// An error body without structured entries is still an upstream
	// rejection, not a transport fault; the translator falls back to its
	// generic failure message for it.
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(data, apiErr); err != nil {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Excerpt: excerpt(data)}
	}
	return nil, apiErr
}

func excerpt(data []byte) string {
	if len(data) > maxExcerptLen {
		return string(data[:maxExcerptLen])
	}
	return string(data)
}

package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every call to the gateway
const DefaultTimeout = 15 * time.Second

// APIError is returned when the gateway answers with a non 2xx status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("flutterwave returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Flutterwave v3 REST API
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient returns a client for baseURL authenticated with secretKey. A nil
// httpClient gets one with DefaultTimeout.
func NewClient(baseURL, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: httpClient,
	}
}

// CreatePayment asks for a hosted checkout link for req
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	resp := &PaymentResponse{}
	if err := c.do(ctx, http.MethodPost, "/v3/payments", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// VerifyTransaction fetches the transaction with the gateway id
func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (*TransactionResponse, error) {
	resp := &TransactionResponse{}
	path := "/v3/transactions/" + url.PathEscape(transactionID) + "/verify"
	if err := c.do(ctx, http.MethodGet, path, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// VerifyByReference fetches the transaction created for our tx_ref
func (c *Client) VerifyByReference(ctx context.Context, txRef string) (*TransactionResponse, error) {
	resp := &TransactionResponse{}
	path := "/v3/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(txRef)
	if err := c.do(ctx, http.MethodGet, path, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call flutterwave: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read flutterwave response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode flutterwave response: %w", err)
	}
	return nil
}

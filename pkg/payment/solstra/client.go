package solstra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// Client represents a Solstra payment API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Solstra client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Create registers a new payment and returns the wallet address the
// buyer must transfer funds into
func (c *Client) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	if req.Currency == "" {
		req.Currency = c.config.DefaultCurrency
	}
	if req.WebhookURL == "" {
		req.WebhookURL = c.config.WebhookURL
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}

	resp, err := c.doRequest(ctx, "service/pay/create", req)
	if err != nil {
		return nil, fmt.Errorf("failed to make create request: %w", err)
	}

	var createResp CreateResponse
	if err := json.Unmarshal(resp, &createResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal create response: %w", err)
	}

	return &createResp, nil
}

// Check polls the settlement state of a payment
func (c *Client) Check(ctx context.Context, paymentID string) (*CheckResponse, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment ID required", ErrInvalidRequest)
	}

	endpoint := fmt.Sprintf("service/pay/%s/check", paymentID)
	resp, err := c.doRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make check request: %w", err)
	}

	var checkResp CheckResponse
	if err := json.Unmarshal(resp, &checkResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal check response: %w", err)
	}

	return &checkResp, nil
}

// doRequest performs an HTTP POST to the Solstra API, retrying
// transient network failures with a short backoff
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt-1)):
			}
		}

		body, err := c.doOnce(ctx, url, reqBody)
		if err == nil {
			return body, nil
		}
		lastErr = err

		// Only network failures are worth retrying; API rejections are final
		if !errors.Is(err, ErrNetworkError) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, url string, reqBody []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		}

		errorMsg := fmt.Sprintf("Solstra API error - Status: %d, Message: %s", resp.StatusCode, errResp.Message)

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrPaymentNotFound, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, errorMsg)
		}
	}

	return body, nil
}

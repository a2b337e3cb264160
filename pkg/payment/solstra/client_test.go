package solstra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		APIKey:          "test-api-key",
		BaseURL:         baseURL,
		WebhookURL:      "https://shop.example.com/api/v1/payments/webhook",
		DefaultCurrency: "USDT",
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "Missing API key", config: Config{BaseURL: "https://api.example.com", DefaultCurrency: "USDT"}},
		{name: "Missing base URL", config: Config{APIKey: "key", DefaultCurrency: "USDT"}},
		{name: "Missing currency", config: Config{APIKey: "key", BaseURL: "https://api.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Nil(t, client)
		})
	}
}

func TestClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/service/pay/create", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))

		var req CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "USDT", req.Currency)
		assert.Equal(t, 265.0, req.Amount)
		assert.NotEmpty(t, req.WebhookURL)

		json.NewEncoder(w).Encode(CreateResponse{
			Status: "success",
			Data: PaymentData{
				ID:            "pay_abc123",
				Currency:      req.Currency,
				Amount:        req.Amount,
				WalletAddress: "0xDEADBEEF",
				CheckPaid:     "https://api.example.com/service/pay/pay_abc123/check",
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Create(context.Background(), CreateRequest{Amount: 265})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "pay_abc123", resp.Data.ID)
	assert.Equal(t, "0xDEADBEEF", resp.Data.WalletAddress)
}

func TestClient_Create_InvalidAmount(t *testing.T) {
	client, err := NewClient(testConfig("https://api.example.com"))
	require.NoError(t, err)

	resp, err := client.Create(context.Background(), CreateRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Nil(t, resp)
}

func TestClient_Check(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service/pay/pay_abc123/check", r.URL.Path)

		json.NewEncoder(w).Encode(CheckResponse{
			Status: "success",
			Data:   CheckData{ID: "pay_abc123", IsPaid: true},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Check(context.Background(), "pay_abc123")
	require.NoError(t, err)
	assert.True(t, resp.Data.IsPaid)
}

func TestClient_Check_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Status: "error", Message: "payment not found"})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Check(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Nil(t, resp)
}

func TestClient_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Status: "error", Message: "invalid api key"})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Create(context.Background(), CreateRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_RetriesNetworkFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			// Drop the connection to simulate a transient network failure
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		json.NewEncoder(w).Encode(CheckResponse{Status: "success", Data: CheckData{ID: "pay_abc", IsPaid: false}})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Check(context.Background(), "pay_abc")
	require.NoError(t, err)
	assert.False(t, resp.Data.IsPaid)
	assert.Equal(t, 2, attempts)
}

package solstra

// CreateRequest is the payload for creating a payment
type CreateRequest struct {
	Currency   string  `json:"currency"`             // currency code (USDT, BNB, ...)
	Amount     float64 `json:"amount"`               // amount to charge
	WebhookURL string  `json:"webhookURL,omitempty"` // settlement callback URL
}

// PaymentData is the payment object returned by Solstra
type PaymentData struct {
	ID            string  `json:"id"`            // payment ID
	Currency      string  `json:"currency"`      // currency code
	Amount        float64 `json:"amount"`        // charged amount
	WalletAddress string  `json:"walletAddress"` // wallet to transfer funds into
	CheckPaid     string  `json:"checkPaid"`     // URL to poll for settlement
	IsPaid        bool    `json:"isPaid"`        // settlement flag
	CreatedAt     string  `json:"createdAt"`     // creation timestamp
}

// CreateResponse is the response for a payment creation request
type CreateResponse struct {
	Status  string      `json:"status"`  // "success" on success
	Message string      `json:"message"` // human-readable detail
	Data    PaymentData `json:"data"`    // created payment
}

// CheckData is the settlement state returned by the check endpoint
type CheckData struct {
	ID     string `json:"id"`     // payment ID
	IsPaid bool   `json:"isPaid"` // settlement flag
}

// CheckResponse is the response for a payment check request
type CheckResponse struct {
	Status  string    `json:"status"`  // "success" on success
	Message string    `json:"message"` // human-readable detail
	Data    CheckData `json:"data"`    // settlement state
}

// WebhookPayload is the body Solstra posts to the webhook URL
type WebhookPayload struct {
	PaymentID string `json:"paymentID"` // settled payment ID
}

// ErrorResponse is the error envelope returned by the API
type ErrorResponse struct {
	Status  string `json:"status"`  // "error"
	Message string `json:"message"` // error detail
}

package solstra

// Config represents the configuration for the Solstra client
type Config struct {
	// APIKey is the Solstra API key for request authentication
	APIKey string

	// BaseURL is the Solstra API base URL
	BaseURL string

	// WebhookURL is the callback URL Solstra notifies when a payment settles
	WebhookURL string

	// DefaultCurrency is the currency used when a request does not set one
	DefaultCurrency string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.DefaultCurrency == "" {
		return ErrInvalidRequest
	}
	return nil
}

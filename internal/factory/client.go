// Package factory is the thin client for the third-party validation
// service. It has no invariants of its own; the persistence layer never
// calls it directly.
package factory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pizza-service/internal/common/config"
	"pizza-service/internal/common/logger"
)

// Validator is the boundary the HTTP layer depends on, so the outbound
// call can be faked in tests.
type Validator interface {
	Validate(ctx context.Context, email string) (*ValidateResult, error)
}

type ValidateResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	log        logger.Logger
}

func NewClient(cfg config.FactoryConfig, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		log:        log.WithFields(map[string]interface{}{"component": "factory"}),
	}
}

// Validate posts the email to the factory's validate endpoint with the
// configured bearer key.
func (c *Client) Validate(ctx context.Context, email string) (*ValidateResult, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("factory call failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("factory validate returned status %d", resp.StatusCode)
	}

	var result ValidateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

const (
	// EnvSandbox and EnvProduction name the two provider environments.
	EnvSandbox    = "sandbox"
	EnvProduction = "production"

	defaultBaseURL             = "https://api.mercadopago.com"
	errorBodyReadLimit   int64 = 1024
	preferencesPath            = "/checkout/preferences"
	paymentsPath               = "/v1/payments"
	idempotencyHeaderKey       = "X-Idempotency-Key"
)

var errAccessTokenRequired = errors.New("payments access token is required")

// Client wraps the hosted-checkout provider's preference and payment APIs.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	environment string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithEnvironment selects sandbox or production redirect behavior.
func WithEnvironment(environment string) Option {
	return func(c *Client) {
		trimmed := strings.ToLower(strings.TrimSpace(environment))
		if trimmed == EnvSandbox || trimmed == EnvProduction {
			c.environment = trimmed
		}
	}
}

// NewClient builds the provider client given an access token.
func NewClient(accessToken string, opts ...Option) (*Client, error) {
	trimmedToken := strings.TrimSpace(accessToken)
	if trimmedToken == "" {
		return nil, errAccessTokenRequired
	}

	client := &Client{
		accessToken: trimmedToken,
		baseURL:     defaultBaseURL,
		environment: EnvSandbox,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Environment reports the configured provider environment.
func (c *Client) Environment() string {
	if c == nil {
		return EnvSandbox
	}
	return c.environment
}

// CreatePreference registers a checkout preference and returns the hosted
// payment links. The call is made exactly once; duplicate submissions are
// the caller's problem and are guarded with an idempotency key upstream.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payments client not configured")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "preference requires at least one item")
	}
	if strings.TrimSpace(req.Payer.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payer email is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal preference request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(preferencesPath), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build preference request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set(idempotencyHeaderKey, uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute preference request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "preference request failed")
	}

	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode preference response")
	}
	if pref.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "preference response missing id")
	}

	return &pref, nil
}

// GetPayment fetches the payment resource for status polling and webhooks.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payments client not configured")
	}
	trimmed := strings.TrimSpace(paymentID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment ID is required")
	}

	endpoint := fmt.Sprintf("%s/%s", c.buildURL(paymentsPath), url.PathEscape(trimmed))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build payment request")
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute payment request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "payment request failed")
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment response")
	}

	return &payment, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}

package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// SessionLine is one line item sent to the provider. Amounts are in minor
// currency units, tax-exclusive.
type SessionLine struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	UnitAmountCents int64  `json:"unit_amount"`
	Quantity        int    `json:"quantity"`
}

type CreateSessionInput struct {
	Currency   string            `json:"currency"`
	Lines      []SessionLine     `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Provider is the narrow surface the checkout service depends on.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (*Session, error)
	VerifySignature(header string, body []byte) error
}

// Client talks to the checkout-session API over HTTP.
type Client struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	httpClient    *http.Client
}

func NewClient(baseURL, apiKey, webhookSecret string) *Client {
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (*Session, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("create checkout session: %s", resp.Status)
	}

	var out Session
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("create checkout session: empty session id")
	}
	return &out, nil
}

func (c *Client) VerifySignature(header string, body []byte) error {
	return verifySignature(header, body, c.webhookSecret, time.Now())
}

// Event is the webhook payload we care about.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// EventCheckoutCompleted is the only event type the webhook endpoint acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// ParseEvent decodes a webhook body after its signature has been verified.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("parse webhook event: %w", err)
	}
	if ev.Type == "" {
		return nil, errors.New("parse webhook event: missing type")
	}
	return &ev, nil
}

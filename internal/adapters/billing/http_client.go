// Package billing talks to the external invoicing provider over its JSON
// HTTP API. Every call is context-bounded and a non-2xx response or transport
// failure surfaces as apperrors.ErrExternalProvider; the settlement saga
// decides what to do with it.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a billing provider client. The timeout bounds each call
// end to end, on top of whatever deadline the request context carries.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ portssvc.BillingProvider = (*Client)(nil)

type createInvoiceRequest struct {
	CustomerID string                      `json:"customerID"`
	LineItems  []portssvc.BillingLineItem  `json:"lineItems"`
	Metadata   map[string]string           `json:"metadata,omitempty"`
	DueDate    *time.Time                  `json:"dueDate,omitempty"`
}

// CreateInvoice creates and finalizes an invoice at the provider.
func (c *Client) CreateInvoice(ctx context.Context, customerHandle string, lineItems []portssvc.BillingLineItem, metadata map[string]string, dueDate *time.Time) (*portssvc.ExternalInvoice, error) {
	payload := createInvoiceRequest{
		CustomerID: customerHandle,
		LineItems:  lineItems,
		Metadata:   metadata,
		DueDate:    dueDate,
	}
	var invoice portssvc.ExternalInvoice
	if err := c.do(ctx, http.MethodPost, "/v1/invoices", payload, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RetrieveCustomer fetches a billing account by its provider handle.
func (c *Client) RetrieveCustomer(ctx context.Context, customerHandle string) (*portssvc.BillingCustomer, error) {
	var customer portssvc.BillingCustomer
	path := "/v1/customers/" + url.PathEscape(customerHandle)
	if err := c.do(ctx, http.MethodGet, path, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal billing request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build billing request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrExternalProvider, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded slice of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned %d: %s", apperrors.ErrExternalProvider, method, path, resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode %s %s response: %v", apperrors.ErrExternalProvider, method, path, err)
		}
	}
	return nil
}

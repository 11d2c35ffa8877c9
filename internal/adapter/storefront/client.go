// Package storefront talks to the hosting store: it adds line items to the
// shopper's cart and submits save codes through the store's contact form.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// Compile-time checks: Client implements the cart and save code ports.
var (
	_ domain.CartClient     = (*Client)(nil)
	_ domain.SaveCodeSender = (*Client)(nil)
)

const defaultTimeout = 10 * time.Second

// Client is an HTTP client for one storefront. Outgoing requests are traced
// with otelhttp so cart calls show up under the checkout span.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// still wrapped for tracing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		wrapped := *hc
		wrapped.Transport = otelhttp.NewTransport(transportOrDefault(hc.Transport))
		c.http = &wrapped
	}
}

// New creates a client for the storefront at baseURL, e.g.
// "https://shop.example.com".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing storefront url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("storefront url %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CheckoutURL is where the shopper goes after every item reached the cart.
func (c *Client) CheckoutURL() string { return c.baseURL + "/checkout" }

// CartURL is where the shopper goes when an item could not be added.
func (c *Client) CartURL() string { return c.baseURL + "/cart" }

type cartAddItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type cartAddRequest struct {
	Items []cartAddItem `json:"items"`
}

// Add posts one line item to the storefront cart.
func (c *Client) Add(ctx context.Context, item domain.LineItem) error {
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	body, err := json.Marshal(cartAddRequest{
		Items: []cartAddItem{{ID: item.VariantID, Quantity: quantity}},
	})
	if err != nil {
		return fmt.Errorf("encoding cart item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cart/add.js", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err := c.do(req); err != nil {
		return fmt.Errorf("adding variant %s to cart: %w", item.VariantID, err)
	}
	return nil
}

// SendSaveCode submits the save code through the storefront contact form,
// which e-mails it to the shopper.
func (c *Client) SendSaveCode(ctx context.Context, email, code string) error {
	form := url.Values{}
	form.Set("form_type", "contact")
	form.Set("contact[email]", email)
	form.Set("contact[body]", "Your space builder save code: "+code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contact", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := c.do(req); err != nil {
		return fmt.Errorf("submitting contact form: %w", err)
	}
	return nil
}

// StatusError is returned when the storefront answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("storefront returned %d", e.StatusCode)
	}
	return fmt.Sprintf("storefront returned %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func transportOrDefault(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

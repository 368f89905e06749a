// Package api is the single point of outbound HTTP: every backend call
// goes through Client. Authenticated requests carry a bearer token; a 401
// on any of them is reported once through OnSessionExpired so the owner
// can tear the session down, whatever screen triggered the call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ecommerce-storefront/internal/models"
)

// APIError is any non-2xx backend response. Detail carries the backend's
// message when it sent one; callers own the user-facing text.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        zerolog.Logger

	// Token supplies the current bearer token; empty means no session.
	Token func() string
	// OnSessionExpired fires once per 401 response on an authenticated
	// endpoint, before the error is returned to the caller.
	OnSessionExpired func()
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: DefaultHTTPClient(),
		Log:        log,
	}
}

func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// do sends one request and decodes a 2xx body into out (skipped when out
// is nil). endpoint is the route pattern used for metrics labels, not the
// concrete path.
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body io.Reader, contentType string, authed bool, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	started := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		observe(method, endpoint, 0, started)
		c.Log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("api request failed")
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	observe(method, endpoint, resp.StatusCode, started)

	if resp.StatusCode == http.StatusUnauthorized && authed {
		c.Log.Warn().Str("endpoint", endpoint).Msg("session expired")
		if c.OnSessionExpired != nil {
			c.OnSessionExpired()
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, endpoint, err)
		}
	}
	return nil
}

func (c *Client) token() string {
	if c.Token == nil {
		return ""
	}
	return c.Token()
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
		apiErr.Detail = eb.Detail
	}
	return apiErr
}

// Auth

// Login exchanges credentials for a token. The backend expects OAuth2
// form fields, not JSON.
func (c *Client) Login(ctx context.Context, username, password string) (models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok models.Token
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "/api/auth/login", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", false, &tok)
	if err != nil {
		return models.Token{}, err
	}
	return tok, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.User{}, fmt.Errorf("marshal register request: %w", err)
	}
	var user models.User
	err = c.do(ctx, http.MethodPost, "/api/auth/register", "/api/auth/register", nil,
		bytes.NewReader(body), "application/json", false, &user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", "/api/auth/me", nil, nil, "", true, &user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Products

func (c *Client) ListProducts(ctx context.Context, skip, limit int) ([]models.Product, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/api/products/", "/api/products/", q, nil, "", true, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodGet, "/api/products/{id}", "/api/products/"+strconv.Itoa(id), nil, nil, "", true, &p)
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Orders

func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.Order{}, fmt.Errorf("marshal order request: %w", err)
	}
	var order models.Order
	err = c.do(ctx, http.MethodPost, "/api/orders/", "/api/orders/", nil,
		bytes.NewReader(body), "application/json", true, &order)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/", "/api/orders/", nil, nil, "", true, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int) (models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/{id}", "/api/orders/"+strconv.Itoa(id), nil, nil, "", true, &order)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/rmontanez/shopfront/pkg/errors"
	"github.com/rmontanez/shopfront/pkg/logger"
	"github.com/rmontanez/shopfront/pkg/types"
)

const errorBodyReadLimit int64 = 4096

// Client is the single HTTP gateway every workflow uses to reach the backend:
// one base URL, one bearer-token decoration, no retries and no caching beyond
// what net/http already provides.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logg       *logger.Logger
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

// WithTokenSource installs the bearer-token provider.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger attaches the structured logger.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds the gateway for the given backend root.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("gateway base url is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}

	return client, nil
}

// SignIn authenticates the user and returns the minted record, token included.
func (c *Client) SignIn(ctx context.Context, email, password string) (types.User, error) {
	var user types.User
	payload := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/users/signin", payload, &user)
	return user, err
}

// SignUp registers a new account and returns the minted record.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (types.User, error) {
	var user types.User
	payload := map[string]string{"name": name, "email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/users/signup", payload, &user)
	return user, err
}

// ListUsers fetches every account record. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

// CreateUserInput carries the fields for the admin create-user endpoint.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser provisions an account on behalf of an admin.
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (types.User, error) {
	var user types.User
	err := c.do(ctx, http.MethodPost, "/api/users/createuser", input, &user)
	return user, err
}

// DeleteUser removes the account with the given id. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}

// ListProducts fetches the whole catalog.
func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	err := c.do(ctx, http.MethodGet, "/api/products", nil, &products)
	return products, err
}

// ProductBySlug fetches one catalog entry by its slug.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (types.Product, error) {
	var product types.Product
	err := c.do(ctx, http.MethodGet, "/api/products/slug/"+url.PathEscape(slug), nil, &product)
	return product, err
}

// CreateProduct adds a catalog entry. Admin only.
func (c *Client) CreateProduct(ctx context.Context, product types.Product) (types.Product, error) {
	var created types.Product
	err := c.do(ctx, http.MethodPost, "/api/products/addproducts", product, &created)
	return created, err
}

// DeleteProduct removes the catalog entry with the given id. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

// CreateOrder submits the checkout payload and returns the created order.
func (c *Client) CreateOrder(ctx context.Context, order types.Order) (types.Order, error) {
	var envelope struct {
		Message string      `json:"message"`
		Order   types.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodPost, "/api/orders", order, &envelope)
	return envelope.Order, err
}

// OrderByID fetches one order.
func (c *Client) OrderByID(ctx context.Context, id string) (types.Order, error) {
	var envelope struct {
		Message string      `json:"message"`
		Order   types.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &envelope)
	return envelope.Order, err
}

// ListOrders fetches every order visible to the caller.
func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	var envelope struct {
		Message string        `json:"message"`
		Orders  []types.Order `json:"orders"`
	}
	err := c.do(ctx, http.MethodGet, "/api/orders", nil, &envelope)
	return envelope.Orders, err
}

// PayOrder marks the order paid through the backend and returns the updated
// document.
func (c *Client) PayOrder(ctx context.Context, id string) (types.Order, error) {
	var envelope struct {
		Message string      `json:"message"`
		Order   types.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(id)+"/pay", nil, &envelope)
	return envelope.Order, err
}

// PayPalClientID fetches the payment-provider client id.
func (c *Client) PayPalClientID(ctx context.Context) (string, error) {
	var envelope struct {
		Message  string `json:"message"`
		ClientID string `json:"clientId"`
	}
	err := c.do(ctx, http.MethodGet, "/api/keys/paypal", nil, &envelope)
	return envelope.ClientID, err
}

// do performs one request/response cycle: marshal the body, decorate with the
// bearer token when one is available, classify failures, decode into dest.
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.logg != nil {
		ctx = c.logg.WithRequestID(ctx, uuid.NewString())
		c.logg.Debug(c.logg.WithFields(ctx, map[string]any{
			"method": method,
			"path":   path,
		}), "gateway request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classify(resp)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemote, err, "decode response")
	}
	return nil
}

// classify turns a non-2xx response into a coded error, preferring the
// backend's message field over the raw status text.
func (c *Client) classify(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	message := ""
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		message = strings.TrimSpace(body.Message)
	}
	if message == "" {
		message = fmt.Sprintf("status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	code := pkgerrors.CodeRemote
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		code = pkgerrors.CodeForbidden
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	}

	return pkgerrors.New(code, message)
}

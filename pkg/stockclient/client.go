package stockclient

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
)

// APIError is a non-2xx response. Error() is the backend's detail text
// verbatim, so callers can surface it to users unchanged.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string { return e.Detail }

// Client is the authenticated REST client. It performs no caching and
// no retries; Session layers the cache on top.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token up front.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient constructs a Client for the given API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &problem); err == nil && problem.Detail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: problem.Detail}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Detail:     fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}
}

// Login exchanges credentials for a bearer token and stores it on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return LoginResult{}, err
	}
	c.token = result.AccessToken
	return result, nil
}

// Signup registers a new account pending admin approval.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", nil,
		map[string]string{"name": name, "email": email, "password": password}, nil)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user)
	return user, err
}

// Warehouses lists all warehouses.
func (c *Client) Warehouses(ctx context.Context) ([]Warehouse, error) {
	var out []Warehouse
	err := c.do(ctx, http.MethodGet, "/warehouses", nil, nil, &out)
	return out, err
}

// CreateWarehouse adds a warehouse.
func (c *Client) CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	var out Warehouse
	err := c.do(ctx, http.MethodPost, "/warehouses", nil, w, &out)
	return out, err
}

// UpdateWarehouse replaces a warehouse's fields.
func (c *Client) UpdateWarehouse(ctx context.Context, id string, w Warehouse) (Warehouse, error) {
	var out Warehouse
	err := c.do(ctx, http.MethodPut, "/warehouses/"+id, nil, w, &out)
	return out, err
}

// DeleteWarehouse removes a warehouse.
func (c *Client) DeleteWarehouse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/warehouses/"+id, nil, nil, nil)
}

// Locations lists locations, optionally for one warehouse.
func (c *Client) Locations(ctx context.Context, warehouseID string) ([]Location, error) {
	query := url.Values{}
	if warehouseID != "" {
		query.Set("warehouse_id", warehouseID)
	}
	var out []Location
	err := c.do(ctx, http.MethodGet, "/locations", query, nil, &out)
	return out, err
}

// Products lists all products.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, "/products", nil, nil, &out)
	return out, err
}

// CreateProduct adds a product.
func (c *Client) CreateProduct(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPost, "/products", nil, p, &out)
	return out, err
}

// UpdateProduct replaces a product's fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, p Product) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPut, "/products/"+id, nil, p, &out)
	return out, err
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil, nil)
}

// Users lists all users. Admin only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out)
	return out, err
}

// ApproveUser unlocks a pending account. Admin only.
func (c *Client) ApproveUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/users/"+id+"/approve", nil, nil, nil)
}

// Documents lists documents of one type. statusFilter and warehouseID
// are passed through as query filters when non-empty.
func (c *Client) Documents(ctx context.Context, docType Key, statusFilter, warehouseID string) ([]Document, error) {
	query := url.Values{}
	if statusFilter != "" {
		query.Set("status", statusFilter)
	}
	if warehouseID != "" {
		query.Set("warehouse_id", warehouseID)
	}
	var out []Document
	err := c.do(ctx, http.MethodGet, "/"+string(docType), query, nil, &out)
	return out, err
}

// Document fetches one document with its lines.
func (c *Client) Document(ctx context.Context, docType Key, id string) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodGet, "/"+string(docType)+"/"+id, nil, nil, &out)
	return out, err
}

// CreateDocument creates a draft document.
func (c *Client) CreateDocument(ctx context.Context, docType Key, draft DocumentDraft) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPost, "/"+string(docType), nil, draft, &out)
	return out, err
}

// UpdateDocument rewrites a draft document.
func (c *Client) UpdateDocument(ctx context.Context, docType Key, id string, draft DocumentDraft) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPut, "/"+string(docType)+"/"+id, nil, draft, &out)
	return out, err
}

// ConfirmDocument confirms a draft. Admin only.
func (c *Client) ConfirmDocument(ctx context.Context, docType Key, id string) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPost, "/"+string(docType)+"/"+id+"/confirm", nil, nil, &out)
	return out, err
}

// Stock lists current balances with optional filters.
func (c *Client) Stock(ctx context.Context, filters url.Values) ([]StockRow, error) {
	var out []StockRow
	err := c.do(ctx, http.MethodGet, "/stock", filters, nil, &out)
	return out, err
}

// Movements lists stock movements with optional filters.
func (c *Client) Movements(ctx context.Context, filters url.Values) ([]MovementRow, error) {
	var out []MovementRow
	err := c.do(ctx, http.MethodGet, "/movements", filters, nil, &out)
	return out, err
}

// Ledger returns a product's movement history with running balances.
func (c *Client) Ledger(ctx context.Context, productID string) ([]LedgerEntry, error) {
	query := url.Values{"product_id": {productID}}
	var out []LedgerEntry
	err := c.do(ctx, http.MethodGet, "/reports/ledger", query, nil, &out)
	return out, err
}

// LowStock lists product/warehouse pairs under minimum stock.
func (c *Client) LowStock(ctx context.Context, warehouseID string) ([]LowStockRow, error) {
	query := url.Values{}
	if warehouseID != "" {
		query.Set("warehouse_id", warehouseID)
	}
	var out []LowStockRow
	err := c.do(ctx, http.MethodGet, "/reports/low-stock", query, nil, &out)
	return out, err
}

// DashboardSummary returns the landing page aggregates.
func (c *Client) DashboardSummary(ctx context.Context) (Summary, error) {
	var out Summary
	err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &out)
	return out, err
}

// RiskAlerts lists products projected to run dry within a week.
func (c *Client) RiskAlerts(ctx context.Context) ([]RiskAlert, error) {
	var out []RiskAlert
	err := c.do(ctx, http.MethodGet, "/dashboard/risk-alerts", nil, nil, &out)
	return out, err
}

// SearchSuggestions parses a search phrase into a navigation intent.
func (c *Client) SearchSuggestions(ctx context.Context, q string) (Suggestion, error) {
	query := url.Values{"q": {q}}
	var out Suggestion
	err := c.do(ctx, http.MethodGet, "/search/suggestions", query, nil, &out)
	return out, err
}

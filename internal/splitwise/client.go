// Package splitwise is the remote ledger API client. It owns authentication
// and transport; the conversion core talks to it only through the capability
// interfaces declared in internal/core.
package splitwise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expense-forwarder/internal/core"
)

// DefaultBaseURL is the production Splitwise API root.
const DefaultBaseURL = "https://secure.splitwise.com/api/v3.0"

// APIError is a structured failure from the Splitwise API: an HTTP error
// status or a non-empty errors object in an otherwise successful response.
type APIError struct {
	Status int
	Errors map[string]any
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("splitwise api error (status %d): %v", e.Status, e.Errors)
	}
	return fmt.Sprintf("splitwise api error: status %d", e.Status)
}

// Client talks to the Splitwise REST API with an authenticated http.Client
// (see HTTPClient in oauth.go).
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, logger: logger}
}

// Group is a Splitwise expense group.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Subcategory is a leaf expense category; expenses always attach to leaves.
type Subcategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category is a top-level expense category with its subcategories.
type Category struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Expense is a summary of an already-created expense.
type Expense struct {
	ID           int64  `json:"id"`
	Description  string `json:"description"`
	Cost         string `json:"cost"`
	CurrencyCode string `json:"currency_code"`
	Date         string `json:"date"`
}

// CurrentUser returns the authenticated principal.
func (c *Client) CurrentUser(ctx context.Context) (core.Identity, error) {
	var out struct {
		User core.Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "get_current_user", nil, nil, &out); err != nil {
		return core.Identity{}, fmt.Errorf("get current user: %w", err)
	}
	return out.User, nil
}

// Friends returns the principal's friend list.
func (c *Client) Friends(ctx context.Context) ([]core.Identity, error) {
	var out struct {
		Friends []core.Identity `json:"friends"`
	}
	if err := c.do(ctx, http.MethodGet, "get_friends", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}
	return out.Friends, nil
}

// Groups returns the principal's expense groups.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var out struct {
		Groups []Group `json:"groups"`
	}
	if err := c.do(ctx, http.MethodGet, "get_groups", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get groups: %w", err)
	}
	return out.Groups, nil
}

// Categories returns the full expense category tree.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out struct {
		Categories []Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "get_categories", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return out.Categories, nil
}

// RecentExpenses returns up to limit recent expenses, newest first.
func (c *Client) RecentExpenses(ctx context.Context, limit int) ([]Expense, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	var out struct {
		Expenses []Expense `json:"expenses"`
	}
	if err := c.do(ctx, http.MethodGet, "get_expenses", query, nil, &out); err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	return out.Expenses, nil
}

// Submit implements core.Submitter: it posts the record to create_expense
// and returns the assigned expense ID. A non-empty errors object in the
// response is surfaced as an *APIError.
func (c *Client) Submit(ctx context.Context, record core.SubmissionRecord) (*core.Receipt, error) {
	var out struct {
		Expenses []struct {
			ID int64 `json:"id"`
		} `json:"expenses"`
		Errors map[string]any `json:"errors"`
	}
	if err := c.do(ctx, http.MethodPost, "create_expense", nil, record, &out); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, &APIError{Status: http.StatusOK, Errors: out.Errors}
	}
	if len(out.Expenses) == 0 {
		return nil, fmt.Errorf("create expense: response contained no expense")
	}
	c.logger.Info("created expense", "expense_id", out.Expenses[0].ID, "cost", record.Cost, "currency", record.CurrencyCode)
	return &core.Receipt{ExpenseID: out.Expenses[0].ID}, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Errors map[string]any `json:"errors"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Errors = envelope.Errors
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

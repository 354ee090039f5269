package splitwise_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"expense-forwarder/internal/core"
	"expense-forwarder/internal/splitwise"
)

const friendsBody = `{"friends": [
	{"id": 2, "first_name": "John", "last_name": "Doe", "email": "john@example.com"},
	{"id": 3, "first_name": "Sarah", "last_name": "Lee", "email": "sarah@example.com"}
]}`

const categoriesBody = `{"categories": [
	{"id": 1, "name": "Food and drink", "subcategories": [
		{"id": 12, "name": "Dining out"},
		{"id": 13, "name": "Other"}
	]},
	{"id": 2, "name": "Entertainment", "subcategories": [
		{"id": 21, "name": "Movies"}
	]}
]}`

func newTestClient(t *testing.T, handler http.Handler) *splitwise.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return splitwise.NewClient(srv.URL, srv.Client(), nil)
}

func TestClient_FindIdentity(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_friends" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(friendsBody))
	}))
	ctx := context.Background()

	tests := []struct {
		token  string
		wantID int64
		found  bool
	}{
		{"john@example.com", 2, true},
		{"JOHN", 2, true},
		{"doe", 2, true},
		{"john doe", 2, true},
		{"Sarah Lee", 3, true},
		{"nobody", 0, false},
		{"john@", 0, false}, // partial emails never match
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			identity, found, err := client.FindIdentity(ctx, tt.token)
			if err != nil {
				t.Fatalf("FindIdentity: %v", err)
			}
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && identity.ID != tt.wantID {
				t.Errorf("ID = %d, want %d", identity.ID, tt.wantID)
			}
		})
	}
}

func TestClient_FindCategory(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(categoriesBody))
	}))
	ctx := context.Background()

	tests := []struct {
		name   string
		query  string
		wantID int64
		found  bool
	}{
		// Top-level match resolves to the "Other" subcategory.
		{"parent with Other", "food and drink", 13, true},
		// Parent without an Other subcategory yields no match on its own name.
		{"parent without Other", "Entertainment", 0, false},
		{"subcategory exact", "movies", 21, true},
		{"subcategory exact mixed case", "Dining Out", 12, true},
		{"unknown", "Utilities", 0, false},
		{"blank", "  ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found, err := client.FindCategory(ctx, tt.query)
			if err != nil {
				t.Fatalf("FindCategory: %v", err)
			}
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && id != tt.wantID {
				t.Errorf("ID = %d, want %d", id, tt.wantID)
			}
		})
	}
}

func TestClient_Submit(t *testing.T) {
	record := core.SubmissionRecord{
		Cost:         "45.00",
		Description:  "Dinner",
		CurrencyCode: "USD",
		Users: []core.ShareLine{
			{UserID: 1, PaidShare: "45.00", OwedShare: "45.00"},
		},
		SplitEqually: true,
	}

	t.Run("success returns expense id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/create_expense" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var got core.SubmissionRecord
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if got.Cost != "45.00" || len(got.Users) != 1 {
				t.Errorf("unexpected payload %+v", got)
			}
			w.Write([]byte(`{"expenses": [{"id": 777}], "errors": {}}`))
		}))

		receipt, err := client.Submit(context.Background(), record)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if receipt.ExpenseID != 777 {
			t.Errorf("expense ID = %d, want 777", receipt.ExpenseID)
		}
	})

	t.Run("error envelope becomes APIError", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"expenses": [], "errors": {"base": ["You are not allowed to add expenses to that group"]}}`))
		}))

		_, err := client.Submit(context.Background(), record)
		var apiErr *splitwise.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
	})

	t.Run("http error status becomes APIError", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors": {"base": ["Invalid API request: you are not logged in"]}}`))
		}))

		_, err := client.Submit(context.Background(), record)
		var apiErr *splitwise.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", apiErr.Status)
		}
	})
}

func TestClient_CurrentUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user": {"id": 1, "first_name": "Priya", "last_name": "Nair", "email": "priya@example.com"}}`))
	}))

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.ID != 1 || user.FullName() != "Priya Nair" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestCodeFromCallbackURL(t *testing.T) {
	code, err := splitwise.CodeFromCallbackURL(" http://localhost:8080/callback?code=abc123&state=xyz ")
	if err != nil {
		t.Fatalf("CodeFromCallbackURL: %v", err)
	}
	if code != "abc123" {
		t.Errorf("code = %q, want abc123", code)
	}

	if _, err := splitwise.CodeFromCallbackURL("http://localhost:8080/callback?state=xyz"); err == nil {
		t.Error("expected error for missing code, got nil")
	}
}

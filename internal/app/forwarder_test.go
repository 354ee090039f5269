package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"expense-forwarder/internal/app"
	"expense-forwarder/internal/core"
	"expense-forwarder/internal/splitwise"
)

var principal = core.Identity{ID: 1, FirstName: "Priya", LastName: "Nair", Email: "priya@example.com"}

type fakeParser struct {
	result *core.ExtractionResult
	err    error
}

func (p *fakeParser) ParseEmail(_ context.Context, _, _ string) (*core.ExtractionResult, error) {
	return p.result, p.err
}

type fakeLedger struct {
	friends   []core.Identity
	submitted []core.SubmissionRecord
	submitErr error
}

func (l *fakeLedger) Submit(_ context.Context, record core.SubmissionRecord) (*core.Receipt, error) {
	if l.submitErr != nil {
		return nil, l.submitErr
	}
	l.submitted = append(l.submitted, record)
	return &core.Receipt{ExpenseID: 777}, nil
}

func (l *fakeLedger) Friends(_ context.Context) ([]core.Identity, error) {
	return l.friends, nil
}

func (l *fakeLedger) Groups(_ context.Context) ([]splitwise.Group, error) {
	return nil, nil
}

// friendDirectory adapts the fake ledger's friend list to core.IdentityDirectory.
type friendDirectory struct{ ledger *fakeLedger }

func (d friendDirectory) FindIdentity(_ context.Context, token string) (core.Identity, bool, error) {
	for _, f := range d.ledger.friends {
		if strings.EqualFold(f.FirstName, token) || strings.EqualFold(f.Email, token) {
			return f, true, nil
		}
	}
	return core.Identity{}, false, nil
}

type noCategories struct{}

func (noCategories) FindCategory(_ context.Context, _ string) (int64, bool, error) {
	return 0, false, nil
}

func newTestService(parser *fakeParser, ledger *fakeLedger, minConfidence float64) *app.Service {
	converter := core.NewConverter(friendDirectory{ledger}, noCategories{}, principal, core.Defaults{Currency: "USD"}, nil)
	return app.NewService(parser, converter, ledger, nil, minConfidence, nil)
}

func TestService_ForwardEmail(t *testing.T) {
	ctx := context.Background()
	john := core.Identity{ID: 2, FirstName: "John", Email: "john@example.com"}

	t.Run("full pipeline submits a balanced record", func(t *testing.T) {
		ledger := &fakeLedger{friends: []core.Identity{john}}
		parser := &fakeParser{result: &core.ExtractionResult{
			Candidate: core.CandidateExpense{
				Description:  "Dinner",
				Amount:       "30.00",
				Currency:     "USD",
				Participants: []string{"John"},
			},
			Confidence: 0.9,
		}}
		svc := newTestService(parser, ledger, 0.5)

		result, err := svc.ForwardEmail(ctx, app.ForwardRequest{Subject: "Dinner", Body: "split with John"})
		if err != nil {
			t.Fatalf("ForwardEmail: %v", err)
		}
		if result.ExpenseID != 777 {
			t.Errorf("expense ID = %d, want 777", result.ExpenseID)
		}
		if len(ledger.submitted) != 1 {
			t.Fatalf("expected 1 submission, got %d", len(ledger.submitted))
		}
		if got := ledger.submitted[0]; got.Cost != "30.00" || len(got.Users) != 2 {
			t.Errorf("unexpected submitted record %+v", got)
		}
	})

	t.Run("low confidence blocks the pipeline before conversion", func(t *testing.T) {
		ledger := &fakeLedger{}
		parser := &fakeParser{result: &core.ExtractionResult{
			Candidate:  core.CandidateExpense{Description: "Maybe a receipt?", Amount: "10.00", Currency: "USD"},
			Confidence: 0.2,
			Notes:      "email does not look like an expense",
		}}
		svc := newTestService(parser, ledger, 0.5)

		_, err := svc.ForwardEmail(ctx, app.ForwardRequest{Subject: "FYI", Body: "newsletter"})
		if err == nil {
			t.Fatal("expected confidence error, got nil")
		}
		if len(ledger.submitted) != 0 {
			t.Errorf("expected no submission, got %d", len(ledger.submitted))
		}
	})

	t.Run("invalid candidate never reaches the ledger", func(t *testing.T) {
		ledger := &fakeLedger{}
		parser := &fakeParser{result: &core.ExtractionResult{
			Candidate:  core.CandidateExpense{Description: "Broken", Amount: "-5", Currency: "USD"},
			Confidence: 0.9,
		}}
		svc := newTestService(parser, ledger, 0.5)

		_, err := svc.ForwardEmail(ctx, app.ForwardRequest{Subject: "x", Body: "y"})
		var verr *core.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(ledger.submitted) != 0 {
			t.Errorf("expected no submission, got %d", len(ledger.submitted))
		}
	})

	t.Run("submission errors propagate", func(t *testing.T) {
		ledger := &fakeLedger{submitErr: &splitwise.APIError{Status: 401}}
		parser := &fakeParser{result: &core.ExtractionResult{
			Candidate:  core.CandidateExpense{Description: "Dinner", Amount: "30.00", Currency: "USD"},
			Confidence: 0.9,
		}}
		svc := newTestService(parser, ledger, 0.5)

		_, err := svc.ForwardEmail(ctx, app.ForwardRequest{Subject: "x", Body: "y"})
		var apiErr *splitwise.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError to propagate, got %v", err)
		}
	})

	t.Run("history unavailable without a store", func(t *testing.T) {
		svc := newTestService(&fakeParser{}, &fakeLedger{}, 0.5)
		if _, err := svc.RecentHistory(ctx, 5); err == nil {
			t.Error("expected error when history store is not configured")
		}
	})
}

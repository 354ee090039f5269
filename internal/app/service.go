package app

import (
	"context"

	"expense-forwarder/internal/core"
	"expense-forwarder/internal/history"
	"expense-forwarder/internal/splitwise"
)

// ForwarderService is the single interface all UI adapters (CLI, REPL) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ForwarderService interface {
	// ParseEmail runs extraction only and returns the candidate expense
	// with its confidence score. No conversion or submission happens.
	ParseEmail(ctx context.Context, subject, body string) (*core.ExtractionResult, error)

	// ConvertCandidate runs conversion and the balance gate on a candidate
	// without submitting, for previewing what would be sent.
	ConvertCandidate(ctx context.Context, candidate core.CandidateExpense, groupID int64) (*core.ConversionResult, error)

	// SubmitRecord hands a previously converted record to the ledger after
	// user approval, recording it in the forward history.
	SubmitRecord(ctx context.Context, req SubmitRequest) (*ForwardResult, error)

	// ForwardEmail runs the full pipeline: duplicate check, extraction,
	// confidence gate, conversion, balance gate, submission, history.
	ForwardEmail(ctx context.Context, req ForwardRequest) (*ForwardResult, error)

	// Principal returns the authenticated acting user, loaded once at startup.
	Principal() core.Identity

	// ListFriends returns the principal's friend list.
	ListFriends(ctx context.Context) ([]core.Identity, error)

	// ListGroups returns the principal's expense groups.
	ListGroups(ctx context.Context) ([]splitwise.Group, error)

	// RecentHistory returns the latest forwarded expenses, newest first.
	// It fails when no history store is configured.
	RecentHistory(ctx context.Context, limit int) ([]history.Record, error)
}

// LedgerClient is the subset of the Splitwise client the service needs.
type LedgerClient interface {
	core.Submitter
	Friends(ctx context.Context) ([]core.Identity, error)
	Groups(ctx context.Context) ([]splitwise.Group, error)
}

// ForwardRequest is one email to forward. GroupID of 0 means the configured
// default group.
type ForwardRequest struct {
	Subject string
	Body    string
	GroupID int64
}

// SubmitRequest submits an already-converted record. Subject and Body are
// the original email, used for the idempotency key.
type SubmitRequest struct {
	Subject    string
	Body       string
	Record     core.SubmissionRecord
	Warnings   []core.Warning
	Confidence float64
}

// ForwardResult reports a completed (or skipped) forward.
type ForwardResult struct {
	ExpenseID  int64
	Record     core.SubmissionRecord
	Warnings   []core.Warning
	Confidence float64
	Notes      string
	// Duplicate is set when the email was forwarded before; nothing was
	// submitted and the other fields are zero.
	Duplicate bool
}

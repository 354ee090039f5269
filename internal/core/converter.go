package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CategoryDirectory is the external lookup capability for expense
// categories. Resolution is best-effort: a miss is not an error.
type CategoryDirectory interface {
	FindCategory(ctx context.Context, name string) (int64, bool, error)
}

// Submitter hands a validated SubmissionRecord to the remote ledger.
type Submitter interface {
	Submit(ctx context.Context, record SubmissionRecord) (*Receipt, error)
}

// Defaults is the shared configuration the converter needs. It is injected
// at construction so the core reads no ambient process state.
type Defaults struct {
	Currency string
	GroupID  int64
}

// ConversionResult carries the submission-ready record plus everything the
// conversion worked around along the way.
type ConversionResult struct {
	Record   SubmissionRecord
	Warnings []Warning
}

// Converter turns a CandidateExpense into a balanced SubmissionRecord:
// validate input, resolve participants, determine the payer, compute shares,
// attach category and date, then run the balance gate. The principal is
// fetched once per session by the caller and treated as read-only here, so
// one Converter can serve many conversions.
type Converter struct {
	resolver   *Resolver
	categories CategoryDirectory
	principal  Identity
	defaults   Defaults
	logger     *slog.Logger
}

func NewConverter(identities IdentityDirectory, categories CategoryDirectory, principal Identity, defaults Defaults, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		resolver:   NewResolver(identities, logger),
		categories: categories,
		principal:  principal,
		defaults:   defaults,
		logger:     logger,
	}
}

// Principal returns the acting identity the converter was built with.
func (c *Converter) Principal() Identity {
	return c.principal
}

// Convert runs the full conversion pipeline. groupID of 0 falls back to the
// configured default group; 0 there too means a non-group expense. A
// ValidationError or BalanceError return means no record may be submitted;
// external lookup failures propagate unchanged.
func (c *Converter) Convert(ctx context.Context, candidate CandidateExpense, groupID int64) (*ConversionResult, error) {
	candidate.Normalize()
	if candidate.Currency == "" {
		candidate.Currency = strings.ToUpper(strings.TrimSpace(c.defaults.Currency))
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	total := candidate.TotalAmount()

	set, err := c.resolver.Resolve(ctx, c.principal, candidate.Participants)
	if err != nil {
		return nil, err
	}
	var warnings []Warning
	for _, token := range set.Unresolved {
		warnings = append(warnings, Warning{Kind: WarnUnresolvedParticipant, Detail: token})
	}

	payer := DeterminePayer(candidate.Payer, set, c.principal)

	lines, splitWarnings, err := ComputeShares(total, set, payer, SplitPolicy(candidate.SplitPolicy))
	if err != nil {
		return nil, err
	}
	for _, w := range splitWarnings {
		c.logger.Warn("split policy downgraded", "policy", candidate.SplitPolicy)
		warnings = append(warnings, w)
	}

	record := SubmissionRecord{
		Cost:         total.StringFixed(2),
		Description:  candidate.Description,
		CurrencyCode: candidate.Currency,
		Users:        lines,
		// The record always carries explicit equal shares, so the flag is
		// informational for the remote API.
		SplitEqually: true,
	}

	if groupID == 0 {
		groupID = c.defaults.GroupID
	}
	if groupID != 0 {
		record.GroupID = &groupID
	}

	if candidate.Date != "" {
		day, _ := time.Parse("2006-01-02", candidate.Date) // format checked by Validate
		record.Date = day.UTC().Format("2006-01-02T15:04:05Z")
	}

	if candidate.Category != "" && c.categories != nil {
		categoryID, ok, err := c.categories.FindCategory(ctx, candidate.Category)
		if err != nil {
			return nil, fmt.Errorf("find category %q: %w", candidate.Category, err)
		}
		if ok {
			record.CategoryID = &categoryID
		} else {
			c.logger.Warn("category not resolved, submitting uncategorized", "category", candidate.Category)
			warnings = append(warnings, Warning{Kind: WarnUnresolvedCategory, Detail: candidate.Category})
		}
	}

	if err := ValidateBalance(record); err != nil {
		return nil, err
	}

	c.logger.Info("converted candidate expense",
		"description", record.Description,
		"cost", record.Cost,
		"currency", record.CurrencyCode,
		"participants", len(record.Users),
		"payer", payer.ID,
		"warnings", len(warnings))

	return &ConversionResult{Record: record, Warnings: warnings}, nil
}

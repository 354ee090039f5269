package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Normalize cleans up extraction output, dealing with common formatting
// issues before validation.
func (c *CandidateExpense) Normalize() {
	c.Description = strings.TrimSpace(c.Description)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	c.Date = strings.TrimSpace(c.Date)
	c.Category = strings.TrimSpace(c.Category)
	c.Payer = strings.TrimSpace(c.Payer)

	c.Amount = strings.TrimSpace(c.Amount)
	if strings.ToLower(c.Amount) == "null" {
		c.Amount = ""
	}

	c.SplitPolicy = strings.ToLower(strings.TrimSpace(c.SplitPolicy))
	if c.SplitPolicy == "" {
		c.SplitPolicy = string(SplitEqual)
	}
}

// Validate enforces the input invariants: non-blank description, amount > 0,
// 3-letter currency, known split policy, parseable date. Callers must
// Normalize first.
func (c *CandidateExpense) Validate() error {
	if c.Description == "" {
		return &ValidationError{Field: "description", Reason: "must not be blank"}
	}

	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return &ValidationError{Field: "amount", Reason: "is not a decimal number: " + strconv.Quote(c.Amount)}
	}
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero, got " + amount.String()}
	}

	if !currencyPattern.MatchString(c.Currency) {
		return &ValidationError{Field: "currency", Reason: "must be a 3-letter code, got " + strconv.Quote(c.Currency)}
	}

	switch SplitPolicy(c.SplitPolicy) {
	case SplitEqual, SplitExact, SplitPercentage:
	default:
		return &ValidationError{Field: "split_policy", Reason: "must be one of equal, exact, percentage, got " + strconv.Quote(c.SplitPolicy)}
	}

	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD, got " + strconv.Quote(c.Date)}
		}
	}

	return nil
}

// TotalAmount returns the validated amount as a decimal. It must only be
// called after Validate has passed.
func (c *CandidateExpense) TotalAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(c.Amount)
	return amount
}


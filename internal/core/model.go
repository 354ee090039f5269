package core

import "strings"

// SplitPolicy controls how an expense is divided among participants.
type SplitPolicy string

const (
	SplitEqual      SplitPolicy = "equal"
	SplitExact      SplitPolicy = "exact"
	SplitPercentage SplitPolicy = "percentage"
)

// Identity is a member of the ledger's identity directory. The core never
// mutates an Identity; it only reads fields and compares by ID.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName returns "first last" with missing parts trimmed away.
func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// CandidateExpense is the structured, unvalidated expense produced by the
// extraction service. Amounts are decimal strings to avoid binary float
// drift between extraction and submission.
type CandidateExpense struct {
	Description  string   `json:"description" jsonschema_description:"Brief description of the expense"`
	Amount       string   `json:"amount" jsonschema_description:"The total expense amount as a decimal string (e.g. \"45.00\"), taxes and tips included only if part of the total"`
	Currency     string   `json:"currency" jsonschema_description:"3-letter ISO currency code if mentioned, empty otherwise"`
	Date         string   `json:"date" jsonschema_description:"Expense date in YYYY-MM-DD format if mentioned, empty otherwise"`
	Category     string   `json:"category" jsonschema_description:"Expense category if apparent (e.g. 'Food', 'Entertainment'), empty otherwise"`
	Participants []string `json:"participants" jsonschema_description:"Names or emails of people sharing the expense"`
	SplitPolicy  string   `json:"split_policy" jsonschema_description:"One of 'equal', 'exact' or 'percentage'. Default to 'equal' unless specific amounts or percentages are mentioned."`
	Payer        string   `json:"paid_by" jsonschema_description:"Name or email of who paid, empty if not mentioned"`
}

// ExtractionResult wraps the extraction service output with its confidence.
type ExtractionResult struct {
	Candidate    CandidateExpense `json:"candidate_expense" jsonschema_description:"The expense extracted from the email"`
	Confidence   float64          `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0. Use 0.0 if the email is clearly not about an expense."`
	Notes        string           `json:"notes" jsonschema_description:"Additional notes about the parsing or ambiguities"`
	EmailSummary string           `json:"email_summary" jsonschema_description:"Brief summary of the email content"`
}

// ShareLine is one participant's paid/owed pair within a submission.
// Monetary strings always carry exactly two fractional digits.
type ShareLine struct {
	UserID    int64  `json:"user_id"`
	PaidShare string `json:"paid_share"`
	OwedShare string `json:"owed_share"`
}

// SubmissionRecord is the API-ready expense handed to the submission
// capability. It is constructed once per conversion and never mutated
// afterwards. Absent optional fields are omitted from the payload.
type SubmissionRecord struct {
	Cost         string      `json:"cost"`
	Description  string      `json:"description"`
	Details      string      `json:"details,omitempty"`
	CurrencyCode string      `json:"currency_code"`
	Date         string      `json:"date,omitempty"`
	CategoryID   *int64      `json:"category_id,omitempty"`
	GroupID      *int64      `json:"group_id,omitempty"`
	Users        []ShareLine `json:"users,omitempty"`
	SplitEqually bool        `json:"split_equally"`
}

// Receipt confirms a successful submission.
type Receipt struct {
	ExpenseID int64
}

// ParticipantSet is the ordered, de-duplicated result of identity
// resolution. The acting principal is always Members[0]. Tokens that
// matched nothing in the directory are kept in Unresolved.
type ParticipantSet struct {
	Members    []Identity
	Unresolved []string
}

// Contains reports whether an identity with the given ID is in the set.
func (s ParticipantSet) Contains(id int64) bool {
	for _, m := range s.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

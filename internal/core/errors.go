package core

import "fmt"

// ValidationError reports a malformed CandidateExpense. It is fatal to the
// conversion call and is returned before any external lookup happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid candidate expense: %s %s", e.Field, e.Reason)
}

// Balance check names, in the order they run.
const (
	CheckCostPositive     = "cost-positive"
	CheckDescriptionBlank = "description-blank"
	CheckShareLinesEmpty  = "share-lines-empty"
	CheckPaidSum          = "paid-sum-mismatch"
	CheckOwedSum          = "owed-sum-mismatch"
)

// BalanceError reports which balance check a SubmissionRecord failed.
// A record that fails validation must never reach the submission capability.
type BalanceError struct {
	Check  string
	Detail string
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("balance invariant violated (%s): %s", e.Check, e.Detail)
}

// WarningKind classifies non-fatal conversion events.
type WarningKind string

const (
	WarnUnresolvedParticipant WarningKind = "unresolved-participant"
	WarnUnresolvedCategory    WarningKind = "unresolved-category"
	WarnPolicyDowngrade       WarningKind = "split-policy-downgrade"
)

// Warning records something the conversion worked around rather than
// failed on: an unmatched participant or category token, or a split
// policy that was downgraded to equal.
type Warning struct {
	Kind   WarningKind
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Detail)
}

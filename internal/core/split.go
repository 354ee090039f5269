package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ComputeShares builds one ShareLine per resolved participant.
//
// Only equal splits are implemented. Exact and percentage policies downgrade
// to equal with a split-policy-downgrade warning; the substitution is
// deliberate and observable, never silent.
//
// Arithmetic runs in integer cents with largest-remainder allocation: every
// participant owes floor(total/n) cents and the first total%n participants
// in resolution order absorb one extra cent each, so owed shares always sum
// exactly to the total. The payer's line carries the full total as paid;
// everyone else pays "0.00".
func ComputeShares(total decimal.Decimal, set ParticipantSet, payer Identity, policy SplitPolicy) ([]ShareLine, []Warning, error) {
	n := int64(len(set.Members))
	if n == 0 {
		return nil, nil, errors.New("cannot split an expense among zero participants")
	}

	var warnings []Warning
	if policy != SplitEqual {
		warnings = append(warnings, Warning{
			Kind:   WarnPolicyDowngrade,
			Detail: fmt.Sprintf("split policy %q is not implemented, splitting equally instead", policy),
		})
	}

	totalCents := total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	base := totalCents / n
	remainder := totalCents % n

	lines := make([]ShareLine, 0, n)
	for i, member := range set.Members {
		owed := base
		if int64(i) < remainder {
			owed++
		}
		line := ShareLine{
			UserID:    member.ID,
			PaidShare: "0.00",
			OwedShare: centsToString(owed),
		}
		if member.ID == payer.ID {
			line.PaidShare = centsToString(totalCents)
		}
		lines = append(lines, line)
	}

	return lines, warnings, nil
}

func centsToString(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// balanceTolerance absorbs the rounding error an equal division can leave
// in a single share. Sums further off than this block submission.
var balanceTolerance = decimal.New(1, -2) // 0.01

// ValidateBalance gates a SubmissionRecord before it may reach the
// submission capability. Checks run in order and stop at the first failure:
// positive cost, non-blank description, non-empty share lines, paid shares
// summing to cost, owed shares summing to cost.
func ValidateBalance(record SubmissionRecord) error {
	cost, err := decimal.NewFromString(record.Cost)
	if err != nil || !cost.IsPositive() {
		return &BalanceError{
			Check:  CheckCostPositive,
			Detail: fmt.Sprintf("cost %q must be a positive decimal amount", record.Cost),
		}
	}

	if strings.TrimSpace(record.Description) == "" {
		return &BalanceError{
			Check:  CheckDescriptionBlank,
			Detail: "description must not be blank",
		}
	}

	if len(record.Users) == 0 {
		return &BalanceError{
			Check:  CheckShareLinesEmpty,
			Detail: "record has no share lines",
		}
	}

	paidSum := decimal.Zero
	owedSum := decimal.Zero
	for _, line := range record.Users {
		paid, err := decimal.NewFromString(line.PaidShare)
		if err != nil {
			return &BalanceError{
				Check:  CheckPaidSum,
				Detail: fmt.Sprintf("unparseable paid share %q for user %d", line.PaidShare, line.UserID),
			}
		}
		owed, err := decimal.NewFromString(line.OwedShare)
		if err != nil {
			return &BalanceError{
				Check:  CheckOwedSum,
				Detail: fmt.Sprintf("unparseable owed share %q for user %d", line.OwedShare, line.UserID),
			}
		}
		paidSum = paidSum.Add(paid)
		owedSum = owedSum.Add(owed)
	}

	if paidSum.Sub(cost).Abs().GreaterThan(balanceTolerance) {
		return &BalanceError{
			Check:  CheckPaidSum,
			Detail: fmt.Sprintf("paid shares sum to %s, cost is %s", paidSum.StringFixed(2), cost.StringFixed(2)),
		}
	}
	if owedSum.Sub(cost).Abs().GreaterThan(balanceTolerance) {
		return &BalanceError{
			Check:  CheckOwedSum,
			Detail: fmt.Sprintf("owed shares sum to %s, cost is %s", owedSum.StringFixed(2), cost.StringFixed(2)),
		}
	}

	return nil
}

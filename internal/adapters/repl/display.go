package repl

import (
	"fmt"
	"strings"

	"expense-forwarder/internal/core"
	"expense-forwarder/internal/history"
	"expense-forwarder/internal/splitwise"
)

func printCandidate(extraction *core.ExtractionResult) {
	c := extraction.Candidate
	fmt.Println()
	fmt.Printf("DESCRIPTION: %s\n", c.Description)
	fmt.Printf("AMOUNT:      %s %s\n", c.Currency, c.Amount)
	if c.Date != "" {
		fmt.Printf("DATE:        %s\n", c.Date)
	}
	if c.Category != "" {
		fmt.Printf("CATEGORY:    %s\n", c.Category)
	}
	if len(c.Participants) > 0 {
		fmt.Printf("SPLIT WITH:  %s\n", strings.Join(c.Participants, ", "))
	}
	if c.Payer != "" {
		fmt.Printf("PAID BY:     %s\n", c.Payer)
	}
	fmt.Printf("POLICY:      %s\n", c.SplitPolicy)
	fmt.Printf("CONFIDENCE:  %.2f\n", extraction.Confidence)
	if extraction.Notes != "" {
		fmt.Printf("NOTES:       %s\n", extraction.Notes)
	}
}

func printRecord(conversion *core.ConversionResult) {
	r := conversion.Record
	fmt.Println("\nPROPOSED EXPENSE:")
	fmt.Printf("  %s %s — %s\n", r.CurrencyCode, r.Cost, r.Description)
	if r.GroupID != nil {
		fmt.Printf("  Group: %d\n", *r.GroupID)
	}
	if r.CategoryID != nil {
		fmt.Printf("  Category: %d\n", *r.CategoryID)
	}
	fmt.Println("  SHARES:")
	for _, u := range r.Users {
		fmt.Printf("    user %-10d paid %10s   owes %10s\n", u.UserID, u.PaidShare, u.OwedShare)
	}
	for _, w := range conversion.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
}

func printFriends(friends []core.Identity) {
	fmt.Printf("\nFriends (%d):\n", len(friends))
	for _, f := range friends {
		fmt.Printf("  - %s (%s)\n", f.FullName(), f.Email)
	}
}

func printGroups(groups []splitwise.Group) {
	fmt.Printf("\nGroups (%d):\n", len(groups))
	for _, g := range groups {
		fmt.Printf("  - %s (ID: %d)\n", g.Name, g.ID)
	}
}

func printHistory(records []history.Record) {
	fmt.Printf("\nRecent forwards (%d):\n", len(records))
	for _, r := range records {
		fmt.Printf("  %s  %s %s  %s (expense %d)\n",
			r.CreatedAt.Format("2006-01-02"), r.Currency, r.Cost, r.Description, r.ExpenseID)
	}
}

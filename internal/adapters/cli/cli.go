package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"expense-forwarder/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ForwarderService, args []string) {
	switch args[0] {
	case "forward", "fwd", "f":
		fs := flag.NewFlagSet("forward", flag.ExitOnError)
		subject := fs.String("subject", "", "email subject")
		body := fs.String("body", "", "email body")
		group := fs.Int64("group", 0, "Splitwise group ID (0 = default group)")
		fs.Parse(args[1:])
		if *subject == "" || *body == "" {
			log.Fatal("Usage: forwarder forward --subject \"...\" --body \"...\" [--group ID]")
		}
		result, err := svc.ForwardEmail(ctx, app.ForwardRequest{Subject: *subject, Body: *body, GroupID: *group})
		if err != nil {
			log.Fatalf("Forward failed: %v", err)
		}
		if result.Duplicate {
			fmt.Println("Email already forwarded, skipping.")
			return
		}
		printForwardResult(result)

	case "parse":
		fs := flag.NewFlagSet("parse", flag.ExitOnError)
		subject := fs.String("subject", "", "email subject")
		body := fs.String("body", "", "email body")
		fs.Parse(args[1:])
		if *subject == "" || *body == "" {
			log.Fatal("Usage: forwarder parse --subject \"...\" --body \"...\"")
		}
		result, err := svc.ParseEmail(ctx, *subject, *body)
		if err != nil {
			log.Fatalf("Parse failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)

	case "whoami", "me":
		u := svc.Principal()
		fmt.Printf("User:  %s\n", u.FullName())
		fmt.Printf("Email: %s\n", u.Email)
		fmt.Printf("ID:    %d\n", u.ID)

	case "friends":
		friends, err := svc.ListFriends(ctx)
		if err != nil {
			log.Fatalf("Failed to list friends: %v", err)
		}
		fmt.Printf("Friends (%d):\n", len(friends))
		for _, f := range friends {
			fmt.Printf("  - %s (%s)\n", f.FullName(), f.Email)
		}

	case "groups":
		groups, err := svc.ListGroups(ctx)
		if err != nil {
			log.Fatalf("Failed to list groups: %v", err)
		}
		fmt.Printf("Groups (%d):\n", len(groups))
		for _, g := range groups {
			fmt.Printf("  - %s (ID: %d)\n", g.Name, g.ID)
		}

	case "history":
		fs := flag.NewFlagSet("history", flag.ExitOnError)
		limit := fs.Int("limit", 10, "number of records to show")
		fs.Parse(args[1:])
		records, err := svc.RecentHistory(ctx, *limit)
		if err != nil {
			log.Fatalf("Failed to load history: %v", err)
		}
		fmt.Printf("%-12s %-30s %10s %5s  %s\n", "EXPENSE", "DESCRIPTION", "COST", "CUR", "FORWARDED")
		fmt.Println(strings.Repeat("-", 72))
		for _, r := range records {
			fmt.Printf("%-12d %-30s %10s %5s  %s\n", r.ExpenseID, truncate(r.Description, 30), r.Cost, r.Currency, r.CreatedAt.Format("2006-01-02 15:04"))
		}

	default:
		log.Fatalf("Unknown command: %s\nAvailable: forward, parse, whoami, friends, groups, history", args[0])
	}
}

func printForwardResult(result *app.ForwardResult) {
	fmt.Println("Expense created.")
	fmt.Printf("Description: %s\n", result.Record.Description)
	fmt.Printf("Amount:      %s %s\n", result.Record.CurrencyCode, result.Record.Cost)
	fmt.Printf("Expense ID:  %d\n", result.ExpenseID)
	fmt.Printf("Confidence:  %.2f\n", result.Confidence)
	if result.Notes != "" {
		fmt.Printf("Notes:       %s\n", result.Notes)
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning:     %s\n", w)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

package repl

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strings"

	"expense-forwarder/internal/app"
)

// Run starts the interactive loop. Slash commands dispatch deterministically;
// anything else is treated as pasted email text and routed through the
// extraction and conversion pipeline with a confirmation step before
// submission.
func Run(ctx context.Context, svc app.ForwarderService, reader *bufio.Reader) {
	principal := svc.Principal()
	fmt.Println("Expense Forwarder")
	fmt.Printf("Signed in as: %s (%s)\n", principal.FullName(), principal.Email)
	fmt.Println("Paste an email to forward it, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := dispatchSlash(ctx, svc, input); quit {
				return
			}
			continue
		}

		forwardInteractive(ctx, svc, reader, input)
	}
}

func dispatchSlash(ctx context.Context, svc app.ForwarderService, input string) (quit bool) {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return false
	}

	switch strings.ToLower(tokens[0]) {
	case "friends":
		friends, err := svc.ListFriends(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		printFriends(friends)

	case "groups":
		groups, err := svc.ListGroups(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		printGroups(groups)

	case "history":
		records, err := svc.RecentHistory(ctx, 10)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		printHistory(records)

	case "help":
		fmt.Println("Commands: /friends, /groups, /history, /help, /exit")
		fmt.Println("Anything else is treated as an email subject; you will be prompted for the body.")

	case "exit", "quit":
		return true

	default:
		fmt.Printf("Unknown command: /%s\n", tokens[0])
	}
	return false
}

// forwardInteractive treats the first line as the subject, collects the body
// until a blank line, previews the converted record, and submits only after
// explicit approval.
func forwardInteractive(ctx context.Context, svc app.ForwarderService, reader *bufio.Reader, subject string) {
	fmt.Println("Email body (finish with an empty line):")
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	body := strings.Join(lines, "\n")
	if strings.TrimSpace(body) == "" {
		fmt.Println("Empty body, cancelled.")
		return
	}

	fmt.Println("Parsing email...")
	extraction, err := svc.ParseEmail(ctx, subject, body)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printCandidate(extraction)

	if extraction.Confidence < 0.6 {
		fmt.Println("\nWARNING: Low extraction confidence.")
	}

	conversion, err := svc.ConvertCandidate(ctx, extraction.Candidate, 0)
	if err != nil {
		fmt.Printf("Conversion failed: %v\n", err)
		return
	}
	printRecord(conversion)

	fmt.Print("\nForward this expense? (y/n): ")
	choice, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	choice = strings.TrimSpace(strings.ToLower(choice))
	if choice != "y" && choice != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	result, err := svc.SubmitRecord(ctx, app.SubmitRequest{
		Subject:    subject,
		Body:       body,
		Record:     conversion.Record,
		Warnings:   conversion.Warnings,
		Confidence: extraction.Confidence,
	})
	if err != nil {
		log.Printf("Submission FAILED: %v", err)
		return
	}
	if result.Duplicate {
		fmt.Println("This email was already forwarded, skipping.")
		return
	}
	fmt.Printf("Expense created with ID %d.\n", result.ExpenseID)
}

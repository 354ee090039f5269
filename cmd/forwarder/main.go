package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"expense-forwarder/internal/adapters/cli"
	"expense-forwarder/internal/adapters/repl"
	"expense-forwarder/internal/ai"
	"expense-forwarder/internal/app"
	"expense-forwarder/internal/config"
	"expense-forwarder/internal/core"
	"expense-forwarder/internal/db"
	"expense-forwarder/internal/history"
	"expense-forwarder/internal/splitwise"
	"expense-forwarder/pkg/logging"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	authenticator := splitwise.NewAuthenticator(
		cfg.SplitwiseClientID, cfg.SplitwiseClientSecret,
		cfg.SplitwiseRedirectURI, cfg.SplitwiseAuthURL, cfg.SplitwiseTokenURL,
	)

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "auth" {
		authenticate(ctx, authenticator)
		return
	}

	token := cfg.SplitwiseAccessToken
	if token == "" {
		token = authenticate(ctx, authenticator)
	}

	client := splitwise.NewClient(cfg.SplitwiseBaseURL, splitwise.HTTPClient(ctx, token), slog.Default())

	// The principal is loaded once per session and shared read-only by every
	// conversion that follows.
	principal, err := client.CurrentUser(ctx)
	if err != nil {
		log.Fatalf("Failed to load current user: %v", err)
	}
	slog.Info("loaded current user", "name", principal.FullName(), "email", principal.Email)

	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; parse and forward commands will fail")
	}
	parser := ai.NewParser(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	converter := core.NewConverter(client, client, principal, core.Defaults{
		Currency: cfg.DefaultCurrency,
		GroupID:  cfg.DefaultGroupID,
	}, slog.Default())

	var store *history.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()
		store = history.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare forward history: %v", err)
		}
	}

	svc := app.NewService(parser, converter, client, store, cfg.MinConfidence, slog.Default())

	if len(args) > 0 {
		cli.Run(ctx, svc, args)
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}

// authenticate runs the interactive OAuth flow and returns the access token.
func authenticate(ctx context.Context, authenticator *splitwise.Authenticator) string {
	fmt.Println("Please visit this URL to authorize the application:")
	fmt.Println(authenticator.AuthorizationURL("expense-forwarder"))
	fmt.Print("\nPaste the full callback URL here: ")

	reader := bufio.NewReader(os.Stdin)
	callback, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read callback URL: %v", err)
	}
	code, err := splitwise.CodeFromCallbackURL(strings.TrimSpace(callback))
	if err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}
	token, err := authenticator.ExchangeCode(ctx, code)
	if err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}

	fmt.Printf("\nAccess token: %s\n", token)
	fmt.Println("Set SPLITWISE_ACCESS_TOKEN to skip this step next time.")
	return token
}

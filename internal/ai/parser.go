package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"expense-forwarder/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ParserService extracts a candidate expense from free-form email content.
type ParserService interface {
	ParseEmail(ctx context.Context, subject, body string) (*core.ExtractionResult, error)
}

// Parser implements ParserService on top of the OpenAI responses API with
// strict structured output.
type Parser struct {
	client *openai.Client
	model  shared.ResponsesModel
}

func NewParser(apiKey, model string) *Parser {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	m := shared.ResponsesModel(model)
	if model == "" {
		m = shared.ResponsesModel(shared.ChatModelGPT4o)
	}
	return &Parser{client: &client, model: m}
}

func (p *Parser) ParseEmail(ctx context.Context, subject, body string) (*core.ExtractionResult, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return nil, errors.New("email subject and body must not be empty")
	}

	prompt := fmt.Sprintf(`You are an expert at parsing email content to extract shared expense information.

Parse the following email and extract the expense it describes.

EMAIL SUBJECT: %s
EMAIL BODY: %s

Guidelines:
1. Extract the main expense amount. Ignore taxes and tips unless they are part of the total.
2. If multiple people are mentioned, add them all to participants.
3. Look for keywords like "split", "share", "owe", "paid" to identify participants and the payer.
4. Default to "equal" split unless specific amounts or percentages are mentioned.
5. If the email is clearly not about an expense, set confidence to 0.0.
6. Be conservative with confidence: only use > 0.8 when the information is very clear.`, subject, body)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: p.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "expense_extraction",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A shared expense extracted from an email"),
				},
			},
		},
	}

	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var result core.ExtractionResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	result.Candidate.Normalize()
	return &result, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.ExtractionResult
	return reflector.Reflect(v)
}

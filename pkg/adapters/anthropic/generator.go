// Package anthropic implements ports.Generator with the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/aretw0/parcel/pkg/adapters/prompt"
	"github.com/aretw0/parcel/pkg/adapters/serper"
	"github.com/aretw0/parcel/pkg/ports"
)

// Options configure the generator.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	Prompts     prompt.Set

	// Search, when set, is offered to the model as the web_search tool.
	Search          ports.Searcher
	MaxSearchRounds int
}

// Generator drafts task text with a Claude model.
type Generator struct {
	client *anthropic.Client
	opts   Options
}

// New creates a generator. An empty apiKey falls back to ANTHROPIC_API_KEY.
func New(apiKey string, optFns ...func(o *Options)) *Generator {
	var clientOpts []option.RequestOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:           anthropic.ModelClaude3_5Sonnet20241022,
		Temperature:     0.7,
		MaxTokens:       1024,
		MaxSearchRounds: 3,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Prompts == nil {
		opts.Prompts = prompt.Default()
	}
	return &Generator{client: client, opts: opts}
}

// Generate implements ports.Generator. Tool use blocks for web_search are
// answered with a tool_result turn until the model replies in text.
func (g *Generator) Generate(ctx context.Context, task ports.Task) (string, error) {
	system, user, err := g.opts.Prompts.Render(task)
	if err != nil {
		return "", err
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
	}
	for round := 0; ; round++ {
		params := anthropic.MessageNewParams{
			Model:       g.opts.Model,
			MaxTokens:   g.opts.MaxTokens,
			Temperature: anthropic.Float(g.opts.Temperature),
			System:      []anthropic.TextBlockParam{{Text: system}},
			Messages:    messages,
		}
		if g.opts.Search != nil {
			params.Tools = []anthropic.ToolUnionParam{searchTool()}
		}

		resp, err := g.client.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("anthropic api error: %w", err)
		}

		var (
			b         strings.Builder
			assistant []anthropic.ContentBlockParamUnion
			results   []anthropic.ContentBlockParamUnion
		)
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				text := block.AsText().Text
				b.WriteString(text)
				if text != "" {
					assistant = append(assistant, anthropic.NewTextBlock(text))
				}
			case "tool_use":
				use := block.AsToolUse()
				args, err := json.Marshal(use.Input)
				if err != nil {
					return "", fmt.Errorf("anthropic: tool input: %w", err)
				}
				assistant = append(assistant, anthropic.NewToolUseBlock(use.ID, json.RawMessage(args), use.Name))
				result := fmt.Sprintf("Unknown tool %q.", use.Name)
				if use.Name == serper.ToolName && g.opts.Search != nil {
					result = serper.Invoke(ctx, g.opts.Search, args)
				}
				results = append(results, anthropic.NewToolResultBlock(use.ID, result, false))
			}
		}

		if len(results) == 0 || g.opts.Search == nil {
			text := strings.TrimSpace(b.String())
			if text == "" {
				return "", errors.New("anthropic: empty response")
			}
			return text, nil
		}
		if round >= g.opts.MaxSearchRounds {
			return "", fmt.Errorf("anthropic: no answer after %d search rounds", round)
		}
		messages = append(messages,
			anthropic.NewAssistantMessage(assistant...),
			anthropic.NewUserMessage(results...),
		)
	}
}

func searchTool() anthropic.ToolUnionParam {
	schema := serper.ToolParameters()
	tool := anthropic.ToolUnionParamOfTool(anthropic.ToolInputSchemaParam{
		Type:       constant.Object("object"),
		Properties: schema["properties"],
		Required:   []string{"query"},
	}, serper.ToolName)
	tool.OfTool.Description = anthropic.String(serper.ToolDescription)
	return tool
}

// WithModel selects the model by name.
func WithModel(name string) func(*Options) {
	return func(o *Options) { o.Model = anthropic.Model(name) }
}

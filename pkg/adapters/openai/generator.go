// Package openai implements ports.Generator with the OpenAI Chat Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/aretw0/parcel/pkg/adapters/prompt"
	"github.com/aretw0/parcel/pkg/adapters/serper"
	"github.com/aretw0/parcel/pkg/ports"
)

// Options configure the generator. Fields mirror a subset of the Chat
// Completion parameters.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	Prompts             prompt.Set

	// Search, when set, is offered to the model as the web_search tool.
	Search ports.Searcher
	// MaxSearchRounds bounds the tool-call round trips per draft.
	MaxSearchRounds int
}

// Generator drafts task text with a chat model.
type Generator struct {
	client *openai.Client
	opts   Options
}

// New creates a generator. An empty apiKey falls back to OPENAI_API_KEY.
func New(apiKey string, optFns ...func(o *Options)) *Generator {
	var clientOpts []option.RequestOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	client := openai.NewClient(clientOpts...)
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 600,
		MaxSearchRounds:     3,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Prompts == nil {
		opts.Prompts = prompt.Default()
	}
	return &Generator{client: client, opts: opts}
}

// Generate implements ports.Generator. With a Searcher configured the model
// may call web_search; results are fed back until it answers in text.
func (g *Generator) Generate(ctx context.Context, task ports.Task) (string, error) {
	system, user, err := g.opts.Prompts.Render(task)
	if err != nil {
		return "", err
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(user),
	}
	for round := 0; ; round++ {
		params := openai.ChatCompletionNewParams{
			Model:               g.opts.Model,
			Messages:            messages,
			Temperature:         openai.Float(g.opts.Temperature),
			MaxCompletionTokens: openai.Int(g.opts.MaxCompletionTokens),
		}
		if g.opts.Search != nil {
			params.Tools = []openai.ChatCompletionToolParam{searchTool()}
		}

		resp, err := g.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai api error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("openai: no choices returned")
		}
		msg := resp.Choices[0].Message

		if g.opts.Search == nil || len(msg.ToolCalls) == 0 {
			text := strings.TrimSpace(msg.Content)
			if text == "" {
				return "", errors.New("openai: empty completion")
			}
			return text, nil
		}
		if round >= g.opts.MaxSearchRounds {
			return "", fmt.Errorf("openai: no answer after %d search rounds", round)
		}

		calls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			calls[i] = openai.ChatCompletionMessageToolCallParam{
				ID:   tc.ID,
				Type: "function",
				Function: openai.ChatCompletionMessageToolCallFunctionParam{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
		messages = append(messages, openai.ChatCompletionMessageParamUnion{
			OfAssistant: &openai.ChatCompletionAssistantMessageParam{
				Role:      "assistant",
				ToolCalls: calls,
			},
		})
		for _, tc := range msg.ToolCalls {
			result := fmt.Sprintf("Unknown tool %q.", tc.Function.Name)
			if tc.Function.Name == serper.ToolName {
				result = serper.Invoke(ctx, g.opts.Search, []byte(tc.Function.Arguments))
			}
			messages = append(messages, openai.ToolMessage(result, tc.ID))
		}
	}
}

func searchTool() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Type: "function",
		Function: openai.FunctionDefinitionParam{
			Name:        serper.ToolName,
			Description: openai.String(serper.ToolDescription),
			Parameters:  serper.ToolParameters(),
		},
	}
}

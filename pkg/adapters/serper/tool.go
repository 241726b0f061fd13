package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/parcel/pkg/ports"
)

// Tool identity as advertised to chat models.
const (
	ToolName        = "web_search"
	ToolDescription = "Search the web for current market data, comparable sales, rents and local news. " +
		"Returns titles, URLs and snippets. Cite the URLs you rely on."
)

// ToolParameters is the JSON schema of the tool arguments.
func ToolParameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query.",
			},
		},
		"required": []string{"query"},
	}
}

// Invoke executes one tool call with raw JSON arguments and returns the text
// handed back to the model. Failures are returned as text too, so the model
// can carry on without search.
func Invoke(ctx context.Context, s ports.Searcher, arguments []byte) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(arguments, &args); err != nil {
		return fmt.Sprintf("Search failed: invalid arguments: %v", err)
	}
	results, err := s.Search(ctx, args.Query)
	if err != nil {
		return fmt.Sprintf("Search failed: %v", err)
	}
	return Format(results)
}

// Format renders results as a numbered list.
func Format(results []ports.SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n", i+1, r.Title, r.Link)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Package prompt renders generation tasks into chat prompts for model-backed generators.
package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

//go:embed prompts.yaml
var defaultPrompts []byte

const system = "You are part of a real estate investment analysis team. " +
	"Frame everything as analysis, not financial advice. " +
	"Never guarantee returns, avoid absolute certainty and urgency, " +
	"and keep projections realistic."

// Template is the role and instructions of one task.
type Template struct {
	Role         string `yaml:"role"`
	Instructions string `yaml:"instructions"`
}

// Set maps each task to its template.
type Set map[domain.TaskKind]Template

// Default returns the built-in templates.
func Default() Set {
	set, err := Parse(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("prompt: invalid embedded prompts: %v", err))
	}
	return set
}

// Parse decodes a YAML prompt set. Every task must have a template.
func Parse(data []byte) (Set, error) {
	var raw map[string]Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	set := make(Set, len(raw))
	for name, tmpl := range raw {
		kind, err := domain.ParseTaskKind(name)
		if err != nil {
			return nil, err
		}
		set[kind] = tmpl
	}
	for _, kind := range domain.TaskKinds {
		if _, ok := set[kind]; !ok {
			return nil, fmt.Errorf("parse prompts: missing task %s", kind)
		}
	}
	return set, nil
}

// Load reads a YAML prompt set from path.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	return Parse(data)
}

// Render returns the system and user messages for task.
func (s Set) Render(task ports.Task) (systemMsg, userMsg string, err error) {
	tmpl, ok := s[task.Kind]
	if !ok {
		return "", "", fmt.Errorf("no prompt for task %q", task.Kind)
	}

	address := task.Property.Address()
	if address == "" {
		address = "the property"
	}
	instructions := strings.NewReplacer(
		"{address}", address,
		"{strategy}", task.Strategy.String(),
	).Replace(tmpl.Instructions)

	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n\n%s\n", tmpl.Role, strings.TrimSpace(instructions))

	if data, err := json.MarshalIndent(task.Property, "", "  "); err == nil {
		fmt.Fprintf(&b, "\nProperty data:\n%s\n", data)
	}
	if task.Metrics != nil {
		if data, err := json.MarshalIndent(task.Metrics, "", "  "); err == nil {
			fmt.Fprintf(&b, "\nComputed metrics:\n%s\n", data)
		}
	}
	if rating, ok := task.Results.RiskRating(); ok {
		fmt.Fprintf(&b, "\nRisk rating: %s\n", rating)
	}
	if score, ok := task.Results.AlignmentScore(); ok {
		fmt.Fprintf(&b, "Strategy alignment score: %.1f / 10\n", score)
	}
	if task.Feedback != "" {
		fmt.Fprintf(&b, "\nYour previous draft was rejected. Rewrite it to fix this issue:\n%s\n", task.Feedback)
	}
	return system, b.String(), nil
}

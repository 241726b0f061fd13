// Package process implements ports.Generator by running an external command.
//
// The command receives the task as a JSON document on stdin and the task
// identity in PARCEL_TASK, PARCEL_STRATEGY and PARCEL_ATTEMPT. Its stdout is
// the draft. A stdout that is a JSON object with a "text" field is unwrapped.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/ports"
)

// Request is the JSON document written to the command's stdin.
type Request struct {
	Task     domain.TaskKind          `json:"task"`
	Strategy domain.Strategy          `json:"strategy"`
	Property domain.PropertyInput     `json:"property"`
	Metrics  *domain.FinancialMetrics `json:"metrics,omitempty"`
	Results  domain.Results           `json:"analysis_results,omitempty"`
	Feedback string                   `json:"feedback,omitempty"`
	Attempt  int                      `json:"attempt"`
}

// waitDelay bounds how long Run waits for output pipes after the command
// has been killed.
const waitDelay = time.Second

// Generator runs the configured command once per draft.
type Generator struct {
	cfg Config
}

// New creates a process generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("process generator: command is required")
	}
	return &Generator{cfg: cfg}, nil
}

// Generate implements ports.Generator.
func (g *Generator) Generate(ctx context.Context, task ports.Task) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(Request{
		Task:     task.Kind,
		Strategy: task.Strategy,
		Property: task.Property,
		Metrics:  task.Metrics,
		Results:  task.Results,
		Feedback: task.Feedback,
		Attempt:  task.Attempt,
	})
	if err != nil {
		return "", fmt.Errorf("encode task: %w", err)
	}

	cmd := exec.CommandContext(ctx, g.cfg.Command, g.cfg.Args...)
	cmd.Dir = g.cfg.Dir
	killGroup(cmd)
	// Orphans holding stdout open must not outlive the deadline.
	cmd.WaitDelay = waitDelay
	cmd.Stdin = bytes.NewReader(payload)

	// Task identity goes through the environment; the payload never becomes argv.
	env := cmd.Environ()
	for k, v := range g.cfg.Environment {
		env = append(env, k+"="+v)
	}
	env = append(env,
		"PARCEL_TASK="+string(task.Kind),
		"PARCEL_STRATEGY="+task.Strategy.String(),
		"PARCEL_ATTEMPT="+strconv.Itoa(task.Attempt),
	)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("execution interrupted: %w", ctxErr)
		}
		return "", fmt.Errorf("execution failed: %w. Stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		var wrapped struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err == nil && wrapped.Text != "" {
			text = strings.TrimSpace(wrapped.Text)
		}
	}
	if text == "" {
		return "", fmt.Errorf("execution produced no output")
	}
	return text, nil
}

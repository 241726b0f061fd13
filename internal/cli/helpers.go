package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/internal/sanitize"
	"github.com/aretw0/parcel/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it remembers which signal arrived.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.stop.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger configures the application logger. Debug overrides level.
// Output goes to Stderr so stdout stays clean for reports and JSON-RPC.
func NewLogger(level string, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// ReadProperty reads a property description. Path "-" reads from in.
// Files ending in .json are decoded as JSON, everything else as YAML.
func ReadProperty(path string, in io.Reader) (domain.PropertyInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read property: %w", err)
	}

	var input domain.PropertyInput
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &input)
	} else {
		// YAML is a superset of JSON, so stdin accepts both.
		err = yaml.Unmarshal(data, &input)
	}
	if err != nil {
		return nil, fmt.Errorf("decode property %s: %w", path, err)
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("property %s is empty", path)
	}
	return sanitize.Property(input)
}

// ParseFields turns key=value pairs into a property patch. Numeric values
// become numbers; everything else stays a string.
func ParseFields(pairs []string) (domain.PropertyInput, error) {
	patch := make(domain.PropertyInput, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", pair)
		}
		value = strings.TrimSpace(value)
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			patch[key] = n
		} else {
			patch[key] = value
		}
	}
	return sanitize.Property(patch)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

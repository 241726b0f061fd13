package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/parcel"
	"github.com/aretw0/parcel/internal/config"
	"github.com/aretw0/parcel/pkg/adapters/anthropic"
	"github.com/aretw0/parcel/pkg/adapters/file"
	"github.com/aretw0/parcel/pkg/adapters/local"
	"github.com/aretw0/parcel/pkg/adapters/memory"
	"github.com/aretw0/parcel/pkg/adapters/openai"
	"github.com/aretw0/parcel/pkg/adapters/process"
	"github.com/aretw0/parcel/pkg/adapters/prompt"
	"github.com/aretw0/parcel/pkg/adapters/redis"
	"github.com/aretw0/parcel/pkg/adapters/serper"
	"github.com/aretw0/parcel/pkg/adapters/sqlite"
	"github.com/aretw0/parcel/pkg/guardrail"
	"github.com/aretw0/parcel/pkg/persistence/middleware"
	"github.com/aretw0/parcel/pkg/ports"
)

// defaultSQLiteStorePath is relative to the working directory, next to file.DefaultPath.
const defaultSQLiteStorePath = ".parcel/runs.db"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// createStore builds the report store selected by cfg, wrapped in the PII and
// encryption middleware when configured. The closer releases connections held
// by the store.
func createStore(cfg config.Config) (ports.ReportStore, io.Closer, error) {
	store, closer, err := createBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		mw, err := middleware.NewPIIMiddleware(cfg.PIIPatterns)
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		active, fallback, err := cfg.EncryptionKeys()
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), closer, nil
}

func createBackend(cfg config.Config) (ports.ReportStore, io.Closer, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewStore(), nopCloser{}, nil
	case config.StoreFile:
		path := cfg.StorePath
		if path == "" {
			path = file.DefaultPath
		}
		return file.New(path), nopCloser{}, nil
	case config.StoreSQLite:
		path := cfg.StorePath
		if path == "" {
			path = defaultSQLiteStorePath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create store directory: %w", err)
		}
		store, err := sqlite.Open(filepath.Clean(path))
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("invalid store %q", cfg.Store)
	}
}

// createGenerator builds the text generator selected by cfg.
func createGenerator(cfg config.Config) (ports.Generator, error) {
	prompts := prompt.Default()
	if cfg.PromptsFile != "" {
		set, err := prompt.Load(cfg.PromptsFile)
		if err != nil {
			return nil, err
		}
		prompts = set
	}

	switch cfg.Generator {
	case config.GeneratorLocal:
		return local.New(), nil
	case config.GeneratorOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai generator")
		}
		return openai.New(cfg.OpenAIKey, func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.MaxOutputTokens > 0 {
				o.MaxCompletionTokens = int64(cfg.MaxOutputTokens)
			}
			o.Prompts = prompts
			o.Search = searcher(cfg)
		}), nil
	case config.GeneratorAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY is required for the anthropic generator")
		}
		return anthropic.New(cfg.AnthropicKey, func(o *anthropic.Options) {
			if cfg.Model != "" {
				anthropic.WithModel(cfg.Model)(o)
			}
			if cfg.MaxOutputTokens > 0 {
				o.MaxTokens = int64(cfg.MaxOutputTokens)
			}
			o.Prompts = prompts
			o.Search = searcher(cfg)
		}), nil
	case config.GeneratorProcess:
		pc, err := processConfig(cfg.Command)
		if err != nil {
			return nil, err
		}
		return process.New(pc)
	default:
		return nil, fmt.Errorf("invalid generator %q", cfg.Generator)
	}
}

// searcher returns the web search backend handed to model generators, or nil
// when search is off. It must agree with cfg.Guardrail so the source check is
// only enforced when the model can actually search.
func searcher(cfg config.Config) ports.Searcher {
	if !cfg.SearchConfigured() {
		return nil
	}
	return serper.New(cfg.SerperKey)
}

// processConfig reads a generator config file when command names one and
// parses it as a command line otherwise.
func processConfig(command string) (process.Config, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(command))) {
	case ".yaml", ".yml", ".json":
		return process.LoadConfig(strings.TrimSpace(command))
	}
	return process.ParseCommand(command)
}

// Wiring is everything a command needs to serve requests.
type Wiring struct {
	Advisor  *parcel.Advisor
	Registry *prometheus.Registry
	Logger   *slog.Logger
	closer   io.Closer
}

// Close releases the store.
func (w *Wiring) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// NewWiring builds an Advisor from cfg: store, generator, policy extensions
// and a fresh Prometheus registry.
func NewWiring(cfg config.Config, logger *slog.Logger) (*Wiring, error) {
	store, closer, err := createStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	gen, err := createGenerator(cfg)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("create generator: %w", err)
	}

	reg := prometheus.NewRegistry()
	opts := []parcel.Option{
		parcel.WithStore(store),
		parcel.WithGenerator(gen),
		parcel.WithGuardrailConfig(cfg.Guardrail()),
		parcel.WithLogger(logger),
		parcel.WithMetrics(reg),
	}
	if cfg.PolicyFile != "" {
		ext, err := guardrail.LoadExtensions(cfg.PolicyFile)
		if err != nil {
			closer.Close()
			return nil, fmt.Errorf("load policy: %w", err)
		}
		opts = append(opts, parcel.WithPolicyExtensions(ext))
	}

	logger.Debug("Advisor configured", "store", cfg.Store, "generator", cfg.Generator)
	return &Wiring{
		Advisor:  parcel.New(opts...),
		Registry: reg,
		Logger:   logger,
		closer:   closer,
	}, nil
}

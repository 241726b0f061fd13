package guardrail

// Config tunes the pipeline.
type Config struct {
	// MaxRetries bounds the corrected attempts after a rejection.
	MaxRetries int `json:"max_retries"`
	// RequireExternalSources enables the external-sources check when search is configured.
	RequireExternalSources bool `json:"require_external_sources"`
	// SearchConfigured reports whether the generator has web search available.
	SearchConfigured bool `json:"search_configured"`
	// MinSourceURLs is the number of URLs the Sources section must cite.
	MinSourceURLs int `json:"min_source_urls"`
}

const (
	DefaultMaxRetries    = 5
	DefaultMinSourceURLs = 1
)

// DefaultConfig returns the default policy configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:             DefaultMaxRetries,
		RequireExternalSources: true,
		MinSourceURLs:          DefaultMinSourceURLs,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MinSourceURLs <= 0 {
		c.MinSourceURLs = DefaultMinSourceURLs
	}
	return c
}

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// QueryConfig holds settings for the document query service client.
type QueryConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the root URL of the query service.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey authenticates requests. Usually loaded from .secrets/query-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// StoreID is the default store that indexes uploaded documents.
	StoreID string `json:"store_id" yaml:"store_id" mapstructure:"store_id"`

	// MaxRetries bounds the retries on HTTP 429 inside the client (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// OrchestratorConfig holds settings for pipeline execution.
type OrchestratorConfig struct {
	// SettleDelay is the pause between successfully completed stages
	// (default 500ms).
	SettleDelay time.Duration `json:"settle_delay" yaml:"settle_delay" mapstructure:"settle_delay"`

	// Concurrency bounds how many panels run at once in batch mode (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}

// ValidationConfig is the TTLINC rubric.
type ValidationConfig struct {
	// ProhibitedTerms are matched case-insensitively anywhere in the content.
	ProhibitedTerms []string `json:"prohibited_terms" yaml:"prohibited_terms" mapstructure:"prohibited_terms"`

	// InformalMarkers flag a breach of tone when present.
	InformalMarkers []string `json:"informal_markers" yaml:"informal_markers" mapstructure:"informal_markers"`

	// MinLengthRatio and MaxLengthRatio bound content length relative to the source.
	MinLengthRatio float64 `json:"min_length_ratio" yaml:"min_length_ratio" mapstructure:"min_length_ratio"`
	MaxLengthRatio float64 `json:"max_length_ratio" yaml:"max_length_ratio" mapstructure:"max_length_ratio"`

	// MinCompleteRatio is the shortest content, relative to the source, that
	// still counts as a complete localization.
	MinCompleteRatio float64 `json:"min_complete_ratio" yaml:"min_complete_ratio" mapstructure:"min_complete_ratio"`

	// CitationTarget is the quote count that yields full citation coverage.
	CitationTarget int `json:"citation_target" yaml:"citation_target" mapstructure:"citation_target"`

	// CitationThreshold is the coverage below which a warning is produced.
	CitationThreshold float64 `json:"citation_threshold" yaml:"citation_threshold" mapstructure:"citation_threshold"`
}

// IngestConfig holds settings for turning uploaded files into documents.
type IngestConfig struct {
	// Converter selects the conversion backend for binary formats: markitdown or none.
	Converter string `json:"converter" yaml:"converter" mapstructure:"converter"`

	// StoreID is stamped on ingested documents when no explicit store is given.
	StoreID string `json:"store_id" yaml:"store_id" mapstructure:"store_id"`
}

// StoreConfig holds settings for the local run ledger.
type StoreConfig struct {
	// DataDir contains the SQLite database and exports.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups all component configurations.
type Config struct {
	Query        QueryConfig        `json:"query" yaml:"query" mapstructure:"query"`
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator" mapstructure:"orchestrator"`
	Validation   ValidationConfig   `json:"validation" yaml:"validation" mapstructure:"validation"`
	Ingest       IngestConfig       `json:"ingest" yaml:"ingest" mapstructure:"ingest"`
	Store        StoreConfig        `json:"store" yaml:"store" mapstructure:"store"`
}

// DefaultValidationConfig returns the built-in rubric.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		ProhibitedTerms:   []string{"cure", "guarantee", "miracle", "proven", "risk-free", "100% effective"},
		InformalMarkers:   []string{"!!!", "lol", "omg", "asap"},
		MinLengthRatio:    0.7,
		MaxLengthRatio:    1.5,
		MinCompleteRatio:  0.1,
		CitationTarget:    10,
		CitationThreshold: 0.7,
	}
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		Query: QueryConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   60 * time.Second,
				UserAgent: "transform-engine/0.1",
			},
			MaxRetries: 2,
		},
		Orchestrator: OrchestratorConfig{
			SettleDelay: 500 * time.Millisecond,
			Concurrency: 4,
		},
		Validation: DefaultValidationConfig(),
		Ingest: IngestConfig{
			Converter: "markitdown",
		},
		Store: StoreConfig{
			DataDir:    "data",
			MaxResults: 20,
		},
	}
}

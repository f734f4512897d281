package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "refmat-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IdentityConfig holds settings for the chemical-identity service client.
type IdentityConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxSynonyms caps the synonym list returned per compound (default 10).
	// The cap bounds the repository search fan-out.
	MaxSynonyms int `json:"max_synonyms" yaml:"max_synonyms"`

	// ContactEmail is sent with requests for polite pool access.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// RepositoryConfig holds settings for the reference-material repository client.
type RepositoryConfig struct {
	HTTPConfig `yaml:",inline"`

	// CategoryFilter is the fixed category appended to every search
	// (default "crm").
	CategoryFilter string `json:"category_filter" yaml:"category_filter"`

	// APIKey is an optional key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// SearchConfig holds settings for the aggregation stage.
type SearchConfig struct {
	// MaxMaterials caps the aggregated material list (0 = unlimited).
	MaxMaterials int `json:"max_materials" yaml:"max_materials"`

	// InterTermDelay is the delay between launching per-term searches,
	// to stay inside the repository's rate budget (default 0).
	InterTermDelay time.Duration `json:"inter_term_delay" yaml:"inter_term_delay"`
}

// EnrichmentConfig holds settings for the selection enrichment stage.
type EnrichmentConfig struct {
	// CacheSize bounds the resolved-identity cache (default 256).
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Identity   IdentityConfig   `json:"identity" yaml:"identity"`
	Repository RepositoryConfig `json:"repository" yaml:"repository"`
	Search     SearchConfig     `json:"search" yaml:"search"`
	Enrichment EnrichmentConfig `json:"enrichment" yaml:"enrichment"`
}

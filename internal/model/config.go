package model

import "time"

// Config is the full runtime configuration, assembled by the CLI from
// defaults, the config file, CROSSWALK_* environment variables, and flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Reconcile   ReconcileConfig   `yaml:"reconcile" mapstructure:"reconcile"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	NER         NERConfig         `yaml:"ner" mapstructure:"ner"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the shared fetcher.
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig controls raw response caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// SourcesConfig holds the endpoints of every harvested source.
type SourcesConfig struct {
	DirectoryAPI   string `yaml:"directory_api" mapstructure:"directory_api"`
	ProfileListing string `yaml:"profile_listing" mapstructure:"profile_listing"`
	PublicationAPI string `yaml:"publication_api" mapstructure:"publication_api"`
	SPARQLEndpoint string `yaml:"sparql_endpoint" mapstructure:"sparql_endpoint"`
}

// ReconcileConfig controls identity reconciliation.
type ReconcileConfig struct {
	// NameMatchThreshold is the 0-100 token-set similarity a WikiData label
	// must exceed before a QID is attached.
	NameMatchThreshold int `yaml:"name_match_threshold" mapstructure:"name_match_threshold"`
	// PrimaryDomain and ContractorDomain drive the email fallback retry when
	// a primary-domain address finds no unique directory match.
	PrimaryDomain    string `yaml:"primary_domain" mapstructure:"primary_domain"`
	ContractorDomain string `yaml:"contractor_domain" mapstructure:"contractor_domain"`
}

// ConcurrencyConfig bounds the worker pool used for batch operations.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// NERConfig configures the optional abstract-tagging provider. Tagging is a
// side output and never required for claim extraction.
type NERConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "" disables tagging
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"-" mapstructure:"-"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// StoreConfig locates the relational claim cache.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           60 * time.Second,
			UserAgent:         "crosswalk/0.1 (+https://github.com/linkedscience/crosswalk)",
			MaxBodyBytes:      4_000_000,
			RequestsPerSecond: 2,
			Burst:             5,
			MaxRetries:        3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		Sources: SourcesConfig{
			DirectoryAPI:   "https://www.sciencebase.gov/directory",
			ProfileListing: "https://www.usgs.gov/connect/staff-profiles",
			PublicationAPI: "https://pubs.er.usgs.gov/pubs-services/publication",
			SPARQLEndpoint: "https://query.wikidata.org/sparql",
		},
		Reconcile: ReconcileConfig{
			NameMatchThreshold: 90,
			PrimaryDomain:      "usgs.gov",
			ContractorDomain:   "contractor.usgs.gov",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 8,
		},
		Store: StoreConfig{
			Path: "crosswalk.db",
		},
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "proposal-analyzer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ParseConfig holds settings for parsing a proposals directory.
type ParseConfig struct {
	// ProposalsDir is the directory holding the proposal documents.
	ProposalsDir string `json:"proposals_dir" yaml:"proposals_dir"`

	// Include lists doublestar patterns matched against file base names
	// (default "*.md").
	Include []string `json:"include" yaml:"include"`

	// LineBudget is the number of leading lines scanned for header fields
	// (default 10).
	LineBudget int `json:"line_budget" yaml:"line_budget"`

	// Workers bounds the number of documents parsed concurrently
	// (default GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers"`

	// FailFast aborts the whole batch on the first document that fails to
	// parse. When false, failures are logged and the batch continues.
	FailFast bool `json:"fail_fast" yaml:"fail_fast"`
}

// CatalogConfig holds settings for the SQLite proposal catalog.
type CatalogConfig struct {
	// CatalogDir is the directory for catalog.db and exports.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// BaseURL is the link base stored with each proposal.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// FetchConfig holds settings for downloading proposals from GitHub.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase is the GitHub API root (default "https://api.github.com").
	APIBase string `json:"api_base" yaml:"api_base"`

	// Repo is the owner/name of the repository (default "apple/swift-evolution").
	Repo string `json:"repo" yaml:"repo"`

	// Path is the directory inside the repository (default "proposals").
	Path string `json:"path" yaml:"path"`

	// Ref is the branch, tag, or commit to read (default "main").
	Ref string `json:"ref" yaml:"ref"`

	// Include lists doublestar patterns selecting which files to download
	// (default "*.md").
	Include []string `json:"include" yaml:"include"`

	// Token is an optional GitHub token for higher rate limits.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// MaxRetries is the number of retries on rate limiting (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// ProposalsDir is the destination directory for downloaded documents.
	ProposalsDir string `json:"proposals_dir" yaml:"proposals_dir"`
}

// ReportFormat selects how parse results and reports are printed.
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
)

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Format selects the output format: text, json, or yaml.
	Format ReportFormat `json:"format" yaml:"format"`

	// TopAuthors is the number of authors listed in the summary (default 10).
	TopAuthors int `json:"top_authors" yaml:"top_authors"`

	// BaseURL is the link base for proposal source links.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// WatchDebounce is the quiet period before a watched directory is
	// re-analyzed (default 500ms).
	WatchDebounce time.Duration `json:"watch_debounce" yaml:"watch_debounce"`
}

// AnalyzerConfig groups all stage configurations.
type AnalyzerConfig struct {
	Parse   ParseConfig   `json:"parse" yaml:"parse"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Report  ReportConfig  `json:"report" yaml:"report"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads proposal documents from a GitHub repository
// directory through the contents API.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/proposal-analyzer/internal/corpus"
	"github.com/pdiddy/proposal-analyzer/internal/httputil"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

const (
	DefaultAPIBase   = "https://api.github.com"
	DefaultRepo      = "apple/swift-evolution"
	DefaultPath      = "proposals"
	DefaultRef       = "main"
	DefaultUserAgent = "proposal-analyzer"
	DefaultTimeout   = 30 * time.Second
)

// Entry is one item of a GitHub contents listing.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// Summary holds counts from a fetch run.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of files processed.
func (s Summary) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// WithDefaults fills unset fields of cfg.
func WithDefaults(cfg types.FetchConfig) types.FetchConfig {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Repo == "" {
		cfg.Repo = DefaultRepo
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Ref == "" {
		cfg.Ref = DefaultRef
	}
	if len(cfg.Include) == 0 {
		cfg.Include = corpus.DefaultInclude
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ProposalsDir == "" {
		cfg.ProposalsDir = "proposals"
	}
	return cfg
}

// NewClient returns an HTTP client configured from cfg.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// List returns the files in the configured repository directory whose
// names match cfg.Include, in listing order.
func List(ctx context.Context, client *http.Client, cfg types.FetchConfig) ([]Entry, error) {
	cfg = WithDefaults(cfg)

	endpoint, err := url.JoinPath(cfg.APIBase, "repos", cfg.Repo, "contents", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("building contents URL: %w", err)
	}
	endpoint += "?ref=" + url.QueryEscape(cfg.Ref)

	req, err := newRequest(ctx, endpoint, cfg)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("listing %s/%s: %w", cfg.Repo, cfg.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("listing %s/%s: HTTP %d: %s",
			cfg.Repo, cfg.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding contents listing: %w", err)
	}

	files := entries[:0]
	for _, e := range entries {
		if e.Type == "file" && corpus.Matches(e.Name, cfg.Include) {
			files = append(files, e)
		}
	}
	return files, nil
}

// Download writes e into cfg.ProposalsDir. An existing file of the same
// size is left alone and reported as skipped.
func Download(ctx context.Context, client *http.Client, cfg types.FetchConfig, e Entry) (skipped bool, err error) {
	cfg = WithDefaults(cfg)

	if e.Name == "" || filepath.Base(e.Name) != e.Name || e.Name == ".." {
		return false, fmt.Errorf("unsafe file name %q", e.Name)
	}
	if e.DownloadURL == "" {
		return false, fmt.Errorf("%s has no download URL", e.Name)
	}

	destPath := filepath.Join(cfg.ProposalsDir, e.Name)
	if info, err := os.Stat(destPath); err == nil && info.Size() == e.Size {
		return true, nil
	}

	if err := os.MkdirAll(cfg.ProposalsDir, 0o755); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", cfg.ProposalsDir, err)
	}

	req, err := newRequest(ctx, e.DownloadURL, cfg)
	if err != nil {
		return false, err
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HTTP %d from %s", resp.StatusCode, e.DownloadURL)
	}

	tmpFile, err := os.CreateTemp(cfg.ProposalsDir, ".fetch-*.tmp")
	if err != nil {
		return false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("renaming temp file: %w", err)
	}
	return false, nil
}

// Fetch lists the repository directory and downloads every matching file,
// printing one status line per file and a summary to w. It continues after
// individual download failures; a listing failure is returned as an error.
func Fetch(ctx context.Context, client *http.Client, cfg types.FetchConfig, w io.Writer) (Summary, error) {
	var summary Summary

	entries, err := List(ctx, client, cfg)
	if err != nil {
		return summary, err
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		skipped, err := Download(ctx, client, cfg, e)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed  %s: %v\n", e.Name, err)
			summary.Failed++
		case skipped:
			fmt.Fprintf(w, "skipped %s\n", e.Name)
			summary.Skipped++
		default:
			fmt.Fprintf(w, "fetched %s\n", e.Name)
			summary.Downloaded++
		}
	}

	fmt.Fprintf(w, "\nfetched: %d, skipped: %d, failed: %d (total: %d)\n",
		summary.Downloaded, summary.Skipped, summary.Failed, summary.Total())
	return summary, nil
}

// newRequest builds a GET request with the configured User-Agent. The
// token is sent only to the API host.
func newRequest(ctx context.Context, rawURL string, cfg types.FetchConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	if cfg.Token != "" && sameHost(rawURL, cfg.APIBase) {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}
	return req, nil
}

func sameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Host, ub.Host)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/proposal-analyzer/internal/corpus"
	"github.com/pdiddy/proposal-analyzer/internal/fetch"
	"github.com/pdiddy/proposal-analyzer/internal/header"
	"github.com/pdiddy/proposal-analyzer/internal/report"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

func setDefaults() {
	viper.SetDefault("log_level", "info")

	viper.SetDefault("parse.proposals_dir", "proposals")
	viper.SetDefault("parse.include", corpus.DefaultInclude)
	viper.SetDefault("parse.line_budget", header.DefaultLineBudget)

	viper.SetDefault("catalog.catalog_dir", "catalog")
	viper.SetDefault("catalog.max_results", 50)
	viper.SetDefault("catalog.base_url", corpus.DefaultBaseURL)

	viper.SetDefault("fetch.api_base", fetch.DefaultAPIBase)
	viper.SetDefault("fetch.repo", fetch.DefaultRepo)
	viper.SetDefault("fetch.path", fetch.DefaultPath)
	viper.SetDefault("fetch.ref", fetch.DefaultRef)
	viper.SetDefault("fetch.max_retries", 5)
	viper.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	viper.SetDefault("fetch.user_agent", "proposal-analyzer/"+version)

	viper.SetDefault("report.format", string(types.FormatText))
	viper.SetDefault("report.top_authors", report.DefaultTopAuthors)
	viper.SetDefault("report.base_url", corpus.DefaultBaseURL)
	viper.SetDefault("report.watch_debounce", corpus.DefaultDebounce)
}

// bindFlags binds each viper key to the named flag in fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// loadConfig assembles the stage configurations from flags, environment,
// config file, and defaults, in that order of precedence.
func loadConfig() types.AnalyzerConfig {
	return types.AnalyzerConfig{
		Parse: types.ParseConfig{
			ProposalsDir: viper.GetString("parse.proposals_dir"),
			Include:      viper.GetStringSlice("parse.include"),
			LineBudget:   viper.GetInt("parse.line_budget"),
			Workers:      viper.GetInt("parse.workers"),
			FailFast:     viper.GetBool("parse.fail_fast"),
		},
		Catalog: types.CatalogConfig{
			CatalogDir: viper.GetString("catalog.catalog_dir"),
			MaxResults: viper.GetInt("catalog.max_results"),
			BaseURL:    viper.GetString("catalog.base_url"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			APIBase:      viper.GetString("fetch.api_base"),
			Repo:         viper.GetString("fetch.repo"),
			Path:         viper.GetString("fetch.path"),
			Ref:          viper.GetString("fetch.ref"),
			Include:      viper.GetStringSlice("parse.include"),
			Token:        viper.GetString("fetch.token"),
			MaxRetries:   viper.GetInt("fetch.max_retries"),
			ProposalsDir: viper.GetString("parse.proposals_dir"),
		},
		Report: types.ReportConfig{
			Format:        types.ReportFormat(viper.GetString("report.format")),
			TopAuthors:    viper.GetInt("report.top_authors"),
			BaseURL:       viper.GetString("report.base_url"),
			WatchDebounce: viper.GetDuration("report.watch_debounce"),
		},
	}
}

// dirArg overrides the configured proposals directory with the first
// positional argument, when given.
func dirArg(cfg *types.AnalyzerConfig, args []string) {
	if len(args) > 0 {
		cfg.Parse.ProposalsDir = args[0]
		cfg.Fetch.ProposalsDir = args[0]
	}
}

// writeEncoded writes v to w as indented JSON or YAML.
func writeEncoded(w io.Writer, format types.ReportFormat, v any) error {
	switch format {
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q: use text, json, or yaml", format)
}

// parseProposals runs the batch parse over cfg.ProposalsDir and prints
// the batch summary to errOut.
func parseProposals(ctx context.Context, cfg types.ParseConfig, errOut io.Writer) ([]types.Proposal, corpus.BatchSummary, error) {
	proposals, summary, err := corpus.ParseDir(ctx, cfg, logger)
	if err != nil {
		return nil, summary, err
	}
	corpus.WriteSummary(errOut, summary)
	return proposals, summary, nil
}

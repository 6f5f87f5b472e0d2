// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/proposal-analyzer/internal/corpus"
	"github.com/pdiddy/proposal-analyzer/internal/report"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Print statistics for the proposal corpus",
	Long: `Report parses the proposals directory and prints corpus statistics:
proposals per review status, implemented proposals per Swift version, the
accepted total, the most frequent authors, and document lengths.

With --watch the report is printed again whenever a proposal file is
created, changed, or removed, until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	reportCmd.Flags().Int("top-authors", 10, "number of authors to list")
	reportCmd.Flags().Bool("watch", false, "re-run the report when proposal files change")
	reportCmd.Flags().Duration("debounce", corpus.DefaultDebounce, "quiet period before a watched change is re-analyzed")

	bindFlags(reportCmd.Flags(), map[string]string{
		"report.format":         "format",
		"report.top_authors":    "top-authors",
		"report.watch_debounce": "debounce",
	})

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	dirArg(&cfg, args)

	analyze := func(ctx context.Context) error {
		return writeReport(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	if err := analyze(cmd.Context()); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}
	return corpus.Watch(cmd.Context(), cfg.Parse.ProposalsDir, cfg.Parse.Include,
		cfg.Report.WatchDebounce, logger, analyze)
}

func writeReport(ctx context.Context, cfg types.AnalyzerConfig, out, errOut io.Writer) error {
	proposals, _, err := parseProposals(ctx, cfg.Parse, errOut)
	if err != nil {
		return err
	}

	summary := report.Summarize(proposals, cfg.Report.TopAuthors)
	if cfg.Report.Format == types.FormatText || cfg.Report.Format == "" {
		return report.WriteText(out, summary)
	}
	return writeEncoded(out, cfg.Report.Format, summary)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/proposal-analyzer/internal/report"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [dir]",
	Short: "Parse proposal headers and list the resulting records",
	Long: `Parse reads every proposal document in the proposals directory (or dir,
when given), parses its metadata header, and prints one record per
proposal ordered by proposal number.

Documents whose header cannot be parsed are reported on stderr and left
out of the listing, unless --fail-fast is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "text", "output format: text, json, or yaml")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	dirArg(&cfg, args)

	proposals, summary, err := parseProposals(cmd.Context(), cfg.Parse, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if types.ReportFormat(format) == types.FormatText {
		err = report.WriteTable(cmd.OutOrStdout(), proposals, cfg.Report.BaseURL)
	} else {
		err = writeEncoded(cmd.OutOrStdout(), types.ReportFormat(format), proposals)
	}
	if err != nil {
		return err
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d proposal(s) failed to parse", summary.Failed())
	}
	return nil
}

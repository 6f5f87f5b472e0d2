// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/proposal-analyzer/internal/fetch"
	"github.com/pdiddy/proposal-analyzer/internal/secrets"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [dir]",
	Short: "Download proposal documents from GitHub",
	Long: `Fetch lists the proposals directory of the swift-evolution repository
through the GitHub contents API and downloads every Markdown file into the
proposals directory (or dir, when given). Files already present with the
same size are skipped.

A GitHub token raises the API rate limit. It is read from --token, the
fetch.token config key, or .secrets/github-token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("repo", fetch.DefaultRepo, "GitHub repository (owner/name)")
	fetchCmd.Flags().String("path", fetch.DefaultPath, "directory inside the repository")
	fetchCmd.Flags().String("ref", fetch.DefaultRef, "branch, tag, or commit")
	fetchCmd.Flags().String("token", "", "GitHub API token")
	fetchCmd.Flags().Duration("timeout", fetch.DefaultTimeout, "HTTP request timeout")

	bindFlags(fetchCmd.Flags(), map[string]string{
		"fetch.repo":    "repo",
		"fetch.path":    "path",
		"fetch.ref":     "ref",
		"fetch.token":   "token",
		"fetch.timeout": "timeout",
	})

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	dirArg(&cfg, args)

	fc := fetch.WithDefaults(cfg.Fetch)
	fc.Token = secrets.Lookup(loadedSecrets, secrets.GitHubToken, fc.Token)

	client := fetch.NewClient(fc.HTTPConfig)
	summary, err := fetch.Fetch(cmd.Context(), client, fc, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to download", summary.Failed)
	}
	return nil
}

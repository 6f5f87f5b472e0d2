// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/proposal-analyzer/internal/catalog"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the proposal catalog (store, query, authors, export)",
	Long: `Catalog maintains a local SQLite database of parsed proposals. Use
subcommands to index the proposals directory, query it by title, status,
Swift version, or author, and export it.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store [dir]",
	Short: "Parse the proposals directory and index it into the catalog",
	Long: `Store parses every proposal in the proposals directory and writes the
records into catalog.db. Unchanged proposals are skipped on subsequent
runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	dirArg(&cfg, args)

	proposals, parsed, err := parseProposals(cmd.Context(), cfg.Parse, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), proposals, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d proposal(s) failed indexing", summary.Failed)
	}
	if parsed.HasFailures() {
		return fmt.Errorf("%d proposal(s) failed to parse", parsed.Failed())
	}
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [title words]",
	Short: "Query the catalog by title, status, Swift version, or author",
	Long: `Query lists catalogued proposals matching every given filter, ordered
by proposal number. --status accepts a status kind (accepted, rejected,
implemented, ...) or an implemented status with its version, such as
implemented-3.0.`,
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(loadConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if results == nil {
			results = []catalog.QueryResult{}
		}
		return writeEncoded(cmd.OutOrStdout(), types.FormatJSON, results)
	}
	formatQueryOutput(cmd.OutOrStdout(), results)
	return nil
}

func formatQueryOutput(w io.Writer, results []catalog.QueryResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-34s  %-50s  %s\n", "Number", "Status", "Title", "Authors")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%-8s  %-34s  %-50s  %s\n",
			r.SENumber, r.Status, title, strings.Join(r.Authors, ", "))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// --- authors subcommand ---

var catalogAuthorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "List authors by number of catalogued proposals",
	RunE:  runCatalogAuthors,
}

func runCatalogAuthors(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(loadConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	counts, err := store.AuthorCounts(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, ac := range counts {
		fmt.Fprintf(w, "%4d  %s\n", ac.Proposals, ac.Name)
	}
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the catalog (or a filtered subset) to export.yaml or
export.json in the catalog directory. Supports the same filter flags as
query.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(loadConfig().Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	format, _ := cmd.Flags().GetString("format")
	switch types.ReportFormat(format) {
	case types.FormatYAML, "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case types.FormatJSON:
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) (catalog.QueryOptions, error) {
	title, _ := cmd.Flags().GetString("title")
	if title == "" && len(args) > 0 {
		title = strings.Join(args, " ")
	}
	status, _ := cmd.Flags().GetString("status")
	swift, _ := cmd.Flags().GetString("swift-version")
	author, _ := cmd.Flags().GetString("author")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.QueryOptions{
		Title:      title,
		Version:    types.SwiftVersion(swift),
		Author:     author,
		MaxResults: limit,
	}

	if status != "" {
		kind, version, err := parseStatusFilter(status)
		if err != nil {
			return opts, err
		}
		opts.Kind = kind
		if version != "" {
			opts.Version = version
		}
	}

	if opts.Version != "" && !opts.Version.IsValid() {
		return opts, fmt.Errorf("unknown swift version %q", opts.Version)
	}
	return opts, nil
}

// parseStatusFilter accepts a bare status kind, including "implemented",
// or a full status key such as "implemented-2.2".
func parseStatusFilter(s string) (types.StatusKind, types.SwiftVersion, error) {
	if types.StatusKind(s) == types.KindImplemented {
		return types.KindImplemented, "", nil
	}
	status, err := types.ParseStatusKey(s)
	if err != nil {
		return "", "", err
	}
	return status.Kind, status.Version, nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "filter by title substring")
	cmd.Flags().String("status", "", "filter by status kind or key (e.g. accepted, implemented-3.0)")
	cmd.Flags().String("swift-version", "", "filter by the Swift version a proposal was implemented in")
	cmd.Flags().String("author", "", "filter by author name")
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory for catalog.db and exports")
	catalogCmd.PersistentFlags().String("base-url", "", "link base for proposal source URLs")
	bindFlags(catalogCmd.PersistentFlags(), map[string]string{
		"catalog.catalog_dir": "catalog-dir",
		"catalog.base_url":    "base-url",
	})

	addQueryFlags(catalogQueryCmd)
	catalogQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")

	catalogAuthorsCmd.Flags().Int("limit", 0, "maximum authors listed (0 = use default)")

	addQueryFlags(catalogExportCmd)
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogAuthorsCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}

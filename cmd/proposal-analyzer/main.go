// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the proposal-analyzer CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/proposal-analyzer/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is configured from --log-level before any subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the proposal-analyzer CLI.
var rootCmd = &cobra.Command{
	Use:   "proposal-analyzer",
	Short: "Parse and analyze Swift Evolution proposal headers",
	Long: `proposal-analyzer reads Swift Evolution proposal documents, parses the
metadata header of each one (identifier, title, authors, review status and
the Swift version an accepted proposal shipped in), and reports on the
resulting corpus.

Subcommands fetch the proposals from GitHub, list parsed records, print
corpus statistics, and maintain a queryable SQLite catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		s, err := secrets.Load(secrets.Dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./proposal-analyzer.yaml or ~/.config/proposal-analyzer/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("proposals-dir", "proposals", "directory holding the proposal documents")
	pf.StringSlice("include", []string{"*.md"}, "file name patterns to parse (doublestar syntax)")
	pf.Int("line-budget", 10, "number of leading lines scanned for header fields")
	pf.Int("workers", 0, "documents parsed concurrently (0 = GOMAXPROCS)")
	pf.Bool("fail-fast", false, "stop at the first document that fails to parse")

	bindFlags(pf, map[string]string{
		"log_level":           "log-level",
		"parse.proposals_dir": "proposals-dir",
		"parse.include":       "include",
		"parse.line_budget":   "line-budget",
		"parse.workers":       "workers",
		"parse.fail_fast":     "fail-fast",
	})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("proposal-analyzer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "proposal-analyzer"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("PROPOSAL_ANALYZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a text logger on stderr at the named level.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

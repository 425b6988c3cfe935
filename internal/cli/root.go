// Package cli implements the digest command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"docdigest/internal/config"
)

// app carries state shared by all subcommands.
type app struct {
	cfg *config.Config
	out io.Writer
}

// NewRootCmd builds the digest command tree.
func NewRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "digest",
		Short: "Nightly digest of document changes and team chat",
		Long: `digest watches a set of documents, summarizes the sections whose meaning
changed since the previous run, adds a digest of recent chat activity and
delivers the result to chat and email.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			setupLogging(cfg.LogLevel, cfg.LogFormat, os.Stderr)
			return nil
		},
	}

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newChunksCmd(a))
	rootCmd.AddCommand(newHashesCmd(a))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

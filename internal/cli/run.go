package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"docdigest/internal/contextutil"
)

func newRunCmd(a *app) *cobra.Command {
	var docIDs []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one review and deliver the digest",
		Long: `Run summarizes the configured documents and recent chat activity once,
delivers the digest and prints the run report as JSON.

Examples:
  digest run
  digest run --doc 1AbCdEf --doc 2GhIjKl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(docIDs) > 0 {
				a.cfg.DocIDs = docIDs
			}
			ctx := contextutil.WithLogger(cmd.Context(), slog.Default().With("command", "run"))

			w := newWiring(a.cfg)
			defer func() {
				if err := w.Close(); err != nil {
					slog.Warn("failed to release resources", "error", err)
				}
			}()

			svc, _, err := w.reviewService(ctx)
			if err != nil {
				return err
			}

			report, runErr := svc.Run(ctx)
			if report != nil {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringSliceVar(&docIDs, "doc", nil, "document ID to review (repeatable, overrides DOC_IDS)")
	return cmd
}

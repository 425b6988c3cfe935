package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docdigest/internal/digest"
	"docdigest/internal/storage"
)

func newChunksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chunks <doc-id>",
		Short: "Show the sections of a document and whether they changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := newWiring(a.cfg)
			defer func() { _ = w.Close() }()

			source, err := w.documentSource(ctx)
			if err != nil {
				return err
			}
			hashes, err := w.hashStore(ctx)
			if err != nil {
				return err
			}

			doc, err := source.Open(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to open document: %w", err)
			}
			prior, err := hashes.LoadHashes(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load hashes: %w", err)
			}

			return writeChunks(a.out, doc.Title, digest.ExtractChunks(ctx, doc.Blocks), prior)
		},
	}
}

// writeChunks prints one row per chunk with its change status against prior.
func writeChunks(out io.Writer, title string, chunks []digest.Chunk, prior map[string]string) error {
	fmt.Fprintf(out, "%s (%d sections)\n", title, len(chunks))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tTOKENS\tHASH\tTITLE")
	for _, c := range chunks {
		hash := digest.HashContent(c.Content)
		status := "new"
		if old, ok := prior[c.Title]; ok {
			status = "changed"
			if old == hash {
				status = "unchanged"
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", status, digest.EstimateTokens(c.Content), hash[:12], c.Title)
	}
	return tw.Flush()
}

func newHashesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hashes <doc-id>",
		Short: "List the stored section hashes of a document (sqlite hash store)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newWiring(a.cfg)
			defer func() { _ = w.Close() }()

			db, err := w.database()
			if err != nil {
				return err
			}
			records, err := storage.NewHashRepo(db).ListByDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeHashes(a.out, records)
		},
	}
}

func writeHashes(out io.Writer, records []storage.HashRecord) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UPDATED\tHASH\tTITLE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.UpdatedAt.Format("2006-01-02 15:04:05"), r.ContentHash, r.ChunkTitle)
	}
	return tw.Flush()
}

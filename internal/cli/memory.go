package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/raphaelgruber/agentx-mcp/internal/vector"
	"github.com/spf13/cobra"
)

func newMemoryCmd(a *app) *cobra.Command {
	memoryCmd := &cobra.Command{
		Use:   "memory",
		Short: "Store and retrieve memories in the local vector store",
		Long: `Store and retrieve memories in the local vector store.

Subcommands:
  store   add one memory
  query   nearest-neighbour search
  count   number of stored memories
  import  store a Markdown file as chunked memories
  delete  remove memories by id`,
	}

	memoryCmd.AddCommand(newMemoryStoreCmd(a))
	memoryCmd.AddCommand(newMemoryQueryCmd(a))
	memoryCmd.AddCommand(newMemoryImportCmd(a))
	memoryCmd.AddCommand(newMemoryCountCmd(a))
	memoryCmd.AddCommand(newMemoryDeleteCmd(a))
	return memoryCmd
}

func newMemoryStoreCmd(a *app) *cobra.Command {
	var (
		id        string
		embedding string
		meta      []string
	)

	cmd := &cobra.Command{
		Use:   "store <text>",
		Short: "Store one memory",
		Long: `Store one memory document with an optional embedding and metadata.

Without --embedding the configured embedding provider computes the vector.

Examples:
  agentx memory store "the user prefers dark mode" --meta kind=preference
  agentx memory store "deploys run on fridays" --id deploy-day --embedding 0.1,0.7,0.2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			emb, err := parseEmbedding(embedding)
			if err != nil {
				return err
			}
			metadata, err := parseMetadata(meta)
			if err != nil {
				return err
			}
			if id == "" {
				id = uuid.NewString()
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.StoreMemory(cmd.Context(), id, text, emb, metadata); err != nil {
				return fmt.Errorf("store memory: %w", err)
			}

			st := newStyles(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.success("stored"), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "memory id (default: random UUID)")
	cmd.Flags().StringVar(&embedding, "embedding", "", "comma-separated embedding vector")
	cmd.Flags().StringArrayVar(&meta, "meta", nil, "metadata key=value (repeatable)")
	return cmd
}

func newMemoryQueryCmd(a *app) *cobra.Command {
	var (
		embedding string
		topK      int
		format    string
	)

	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Find the memories closest to a text or embedding",
		Long: `Find the stored memories most similar to a query.

Pass either query text (embedded with the configured provider) or --embedding.

Examples:
  agentx memory query "what theme does the user like?"
  agentx memory query --embedding 0.1,0.7,0.2 --top-k 5 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			of, err := parseFormat(format)
			if err != nil {
				return err
			}
			emb, err := parseEmbedding(embedding)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(emb) == 0 && strings.TrimSpace(text) == "" {
				return fmt.Errorf("provide query text or --embedding")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}

			var hits []memoryHit
			if len(emb) > 0 {
				results, err := store.Query(cmd.Context(), emb, topK)
				if err != nil {
					return fmt.Errorf("query: %w", err)
				}
				hits = toHits(results)
			} else {
				results, err := store.QueryText(cmd.Context(), text, topK)
				if err != nil {
					return fmt.Errorf("query: %w", err)
				}
				hits = toHits(results)
			}

			return printHits(cmd.OutOrStdout(), of, hits)
		},
	}

	cmd.Flags().StringVar(&embedding, "embedding", "", "comma-separated query vector")
	cmd.Flags().IntVarP(&topK, "top-k", "k", vector.DefaultTopK, "number of results")
	cmd.Flags().StringVarP(&format, "format", "f", string(formatText), "output format: text, json or yaml")
	return cmd
}

func newMemoryCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored memories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			n, err := store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newMemoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete memories by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args...); err != nil {
				return fmt.Errorf("delete: %w", err)
			}
			st := newStyles(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", st.success("deleted"), len(args))
			return nil
		},
	}
}

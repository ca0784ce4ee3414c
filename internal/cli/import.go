package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
	"github.com/raphaelgruber/agentx-mcp/internal/parser"
	"github.com/raphaelgruber/agentx-mcp/internal/vector"
	"github.com/spf13/cobra"
)

func newMemoryImportCmd(a *app) *cobra.Command {
	var (
		prefix string
		meta   []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.md>",
		Short: "Split a Markdown file into chunks and store each as a memory",
		Long: `Split a Markdown file by section and paragraph and store every chunk as a
memory. Frontmatter keys become metadata on each chunk. Chunk ids are
<prefix>#<n>; re-importing with the same prefix overwrites chunks by id.

Examples:
  agentx memory import notes/runbook.md
  agentx memory import design.md --prefix design --meta project=agentx
  agentx memory import long.md --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			extra, err := parseMetadata(meta)
			if err != nil {
				return err
			}
			if prefix == "" {
				prefix = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			doc := parser.Parse(string(content))
			chunks := parser.Split(doc, parser.DefaultOptions())
			if len(chunks) == 0 {
				return fmt.Errorf("%s has no content to import", path)
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)
			if dryRun {
				for _, c := range chunks {
					fmt.Fprintf(out, "%s %s (%d bytes)\n", chunkID(prefix, c.Index), st.hint(c.Heading), len(c.Text))
				}
				return nil
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}

			base := doc.Metadata()
			maps.Copy(base, extra)
			base["source"] = path

			vectors, err := a.embedChunks(cmd.Context(), chunks)
			if err != nil {
				return err
			}

			for i, c := range chunks {
				md := maps.Clone(base)
				md["chunk"] = strconv.Itoa(c.Index)
				if c.Heading != "" {
					md["heading"] = c.Heading
				}
				id := chunkID(prefix, c.Index)
				if err := store.StoreMemory(cmd.Context(), id, c.Text, vectors[i], md); err != nil {
					return fmt.Errorf("store chunk %s: %w", id, err)
				}
			}

			fmt.Fprintf(out, "%s %d chunks from %s\n", st.success("imported"), len(chunks), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "id prefix for chunks (default: file name)")
	cmd.Flags().StringArrayVar(&meta, "meta", nil, "extra metadata key=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the chunks without storing them")
	return cmd
}

// embedChunks embeds every chunk in one batch request.
func (a *app) embedChunks(ctx context.Context, chunks []parser.Chunk) ([][]float32, error) {
	if a.embedder == nil {
		return nil, fmt.Errorf("import needs text embedding (check AGENTX_EMBED_PROVIDER): %w", vector.ErrNoEmbedding)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	start := time.Now()
	vectors, err := a.embedder.EmbedBatch(ctx, texts)
	a.collector.RecordTiming(metrics.OpEmbedding, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i, v := range vectors {
		if want := a.embedder.Dimension(); want > 0 && len(v) != want {
			return nil, fmt.Errorf("chunk %d: embedding has %d dimensions, %s produces %d",
				i, len(v), a.embedder.Model(), want)
		}
	}
	return vectors, nil
}

func chunkID(prefix string, index int) string {
	return prefix + "#" + strconv.Itoa(index)
}

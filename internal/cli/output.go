package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// memoryHit is one query result as printed.
type memoryHit struct {
	ID         string            `json:"id" yaml:"id"`
	Document   string            `json:"document" yaml:"document"`
	Similarity float32           `json:"similarity" yaml:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func toHits(results []chromem.Result) []memoryHit {
	hits := make([]memoryHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, memoryHit{
			ID:         r.ID,
			Document:   r.Content,
			Similarity: r.Similarity,
			Metadata:   r.Metadata,
		})
	}
	return hits
}

func printHits(w io.Writer, f outputFormat, hits []memoryHit) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	case formatYAML:
		return encodeYAML(w, hits)
	}

	if len(hits) == 0 {
		fmt.Fprintln(w, "No memories found.")
		return nil
	}
	st := newStyles(w)
	for i, h := range hits {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, st.score(fmt.Sprintf("[%.3f]", h.Similarity)), h.Document)
		fmt.Fprintf(w, "   %s\n", st.hint("id: "+h.ID))
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// printStats writes the metrics snapshot as YAML under a heading.
func printStats(w io.Writer, snap metrics.Snapshot) error {
	st := newStyles(w)
	fmt.Fprintln(w, st.heading("Operation stats"))
	if len(snap.Operations) == 0 {
		fmt.Fprintln(w, st.hint("no operations recorded"))
		return nil
	}
	return encodeYAML(w, snap)
}

// parseEmbedding reads a comma-separated vector. Empty input yields nil.
func parseEmbedding(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid embedding value %q: %w", p, err)
		}
		out = append(out, float32(v))
	}
	return out, nil
}

// parseMetadata turns key=value pairs into a map.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid metadata %q (want key=value)", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

// Package parser splits Markdown documents into memory-sized chunks.
package parser

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	titleRe   = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// Document is a parsed Markdown file.
type Document struct {
	// Frontmatter holds the YAML header, empty when absent or malformed.
	Frontmatter map[string]any
	Title       string
	// Body is the content after the frontmatter.
	Body     string
	Sections []Section
}

// Section is the text under one heading. Text before the first heading is
// kept as a section with an empty Path.
type Section struct {
	Level   int
	Heading string
	// Path joins the enclosing headings, e.g. "## Setup > ### Install".
	Path string
	Text string
}

// Parse splits content into frontmatter, title and sections.
func Parse(content string) *Document {
	doc := &Document{Frontmatter: map[string]any{}, Body: content}

	if rest, ok := strings.CutPrefix(content, "---\n"); ok {
		if end := strings.Index(rest, "\n---"); end >= 0 {
			if err := yaml.Unmarshal([]byte(rest[:end]), &doc.Frontmatter); err != nil || doc.Frontmatter == nil {
				doc.Frontmatter = map[string]any{}
			}
			doc.Body = strings.TrimPrefix(rest[end+len("\n---"):], "\n")
		}
	}

	doc.Title = title(doc.Frontmatter, doc.Body)
	doc.Sections = sections(doc.Body)
	return doc
}

func title(fm map[string]any, body string) string {
	for _, key := range []string{"title", "name"} {
		if s, ok := fm[key].(string); ok && s != "" {
			return s
		}
	}
	if m := titleRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func sections(body string) []Section {
	var (
		out    []Section
		cur    = Section{}
		text   strings.Builder
		path   []string
		levels []int
	)

	flush := func() {
		cur.Text = strings.TrimSpace(text.String())
		if cur.Text != "" || cur.Heading != "" {
			out = append(out, cur)
		}
		text.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			text.WriteString(line)
			text.WriteString("\n")
			continue
		}

		flush()
		level := len(m[1])
		for len(levels) > 0 && levels[len(levels)-1] >= level {
			path = path[:len(path)-1]
			levels = levels[:len(levels)-1]
		}
		path = append(path, m[1]+" "+strings.TrimSpace(m[2]))
		levels = append(levels, level)
		cur = Section{Level: level, Heading: strings.TrimSpace(m[2]), Path: strings.Join(path, " > ")}
	}
	flush()
	return out
}

// Metadata flattens the frontmatter into string pairs for the vector store.
// Lists are joined with commas; nested maps are skipped.
func (d *Document) Metadata() map[string]string {
	out := make(map[string]string, len(d.Frontmatter)+1)
	for k, v := range d.Frontmatter {
		switch val := v.(type) {
		case string:
			out[k] = val
		case int, int64, float64, bool:
			out[k] = fmt.Sprint(val)
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					items = append(items, s)
				}
			}
			sort.Strings(items)
			out[k] = strings.Join(items, ",")
		}
	}
	if d.Title != "" {
		out["title"] = d.Title
	}
	return out
}

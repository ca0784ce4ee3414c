package parser

import (
	"strings"
	"unicode"
)

// Chunk is one piece of a document, stored as its own memory.
type Chunk struct {
	Text    string
	Index   int
	Heading string
}

// Options controls chunk sizes, in bytes.
type Options struct {
	// Threshold: documents up to this size are kept whole.
	Threshold int
	// Target is the preferred size when splitting by sentence.
	Target int
	// Min: smaller sections are merged into the previous chunk.
	Min int
	// Max: larger sections are split by paragraph, then sentence.
	Max int
	// Overlap carries the tail of each chunk into the next.
	Overlap int
}

// DefaultOptions suits short-context embedding models.
func DefaultOptions() Options {
	return Options{
		Threshold: 1500,
		Target:    750,
		Min:       200,
		Max:       1000,
		Overlap:   100,
	}
}

// Split breaks doc into chunks. Empty documents yield none.
func Split(doc *Document, opts Options) []Chunk {
	body := strings.TrimSpace(doc.Body)
	if body == "" {
		return nil
	}
	if len(body) <= opts.Threshold {
		return []Chunk{{Text: body}}
	}

	var chunks []Chunk
	if len(doc.Sections) > 0 {
		chunks = splitSections(doc.Sections, opts)
	} else {
		for _, p := range splitParagraphs(body, opts) {
			chunks = append(chunks, Chunk{Text: p})
		}
	}

	chunks = overlap(chunks, opts.Overlap)
	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

func splitSections(sections []Section, opts Options) []Chunk {
	var chunks []Chunk
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}

		if len(text) > opts.Max {
			for _, p := range splitParagraphs(text, opts) {
				chunks = append(chunks, Chunk{Text: p, Heading: s.Path})
			}
			continue
		}

		if len(text) < opts.Min && len(chunks) > 0 {
			last := &chunks[len(chunks)-1]
			last.Text += "\n\n" + text
			continue
		}
		chunks = append(chunks, Chunk{Text: text, Heading: s.Path})
	}
	return chunks
}

// splitParagraphs packs paragraphs into pieces no larger than opts.Max.
// Oversized paragraphs fall back to sentence packing.
func splitParagraphs(text string, opts Options) []string {
	var (
		out []string
		buf strings.Builder
	)
	emit := func() {
		if buf.Len() > 0 {
			out = append(out, strings.TrimSpace(buf.String()))
			buf.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) > opts.Max {
			emit()
			out = append(out, packSentences(para, opts.Target)...)
			continue
		}
		if buf.Len() > 0 && buf.Len()+len(para) > opts.Max {
			emit()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)
	}
	emit()
	return out
}

func packSentences(text string, target int) []string {
	var (
		out []string
		buf strings.Builder
	)
	for _, s := range sentences(text) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if buf.Len() > 0 && buf.Len()+len(s) > target {
			out = append(out, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(s)
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

// sentences splits on terminal punctuation followed by whitespace.
// A capital letter right before the period (as in "J. Smith") is not a boundary.
func sentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if r == '.' && i > 0 && unicode.IsUpper(runes[i-1]) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		start = i + 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// overlap prefixes each chunk with the last words of the one before it.
func overlap(chunks []Chunk, n int) []Chunk {
	if n <= 0 || len(chunks) < 2 {
		return chunks
	}
	out := make([]Chunk, len(chunks))
	copy(out, chunks)
	for i := 1; i < len(out); i++ {
		prev := chunks[i-1].Text
		if len(prev) <= n {
			continue
		}
		tail := prev[len(prev)-n:]
		// Start at a word boundary.
		if sp := strings.IndexByte(tail, ' '); sp >= 0 {
			tail = tail[sp+1:]
		}
		if tail != "" {
			out[i].Text = tail + " " + out[i].Text
		}
	}
	return out
}

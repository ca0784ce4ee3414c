package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatterAndSections(t *testing.T) {
	doc := Parse("---\ntitle: Runbook\ntags: [ops, deploy]\nowner: sre\npriority: 2\nnested: {a: 1}\n---\nIntro line.\n\n# Deploy\n\nStep one.\n\n## Rollback\n\nUndo it.\n\n# Contacts\n\nPage the on-call.\n")

	assert.Equal(t, "Runbook", doc.Title)
	require.Len(t, doc.Sections, 4)
	assert.Equal(t, "", doc.Sections[0].Path)
	assert.Equal(t, "Intro line.", doc.Sections[0].Text)
	assert.Equal(t, "# Deploy > ## Rollback", doc.Sections[2].Path)
	assert.Equal(t, "# Contacts", doc.Sections[3].Path)
	assert.Equal(t, 1, doc.Sections[3].Level)

	assert.Equal(t, map[string]string{
		"title":    "Runbook",
		"tags":     "deploy,ops",
		"owner":    "sre",
		"priority": "2",
	}, doc.Metadata())
}

func TestParseTitleFromHeading(t *testing.T) {
	doc := Parse("# Notes on Go\n\nbody")
	assert.Equal(t, "Notes on Go", doc.Title)
	assert.Empty(t, doc.Frontmatter)
}

func TestParseMalformedFrontmatter(t *testing.T) {
	doc := Parse("---\nkey: [unclosed\n---\nbody text")
	assert.Empty(t, doc.Frontmatter)
	assert.Equal(t, "body text", doc.Body)
}

package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchFormula(t *testing.T) {
	tests := []struct {
		name   string
		term   string
		fields []string
		want   string
	}{
		{
			name:   "single field",
			term:   "alice",
			fields: []string{"Name"},
			want:   `FIND(LOWER("alice"), LOWER({Name}))`,
		},
		{
			name:   "multiple fields",
			term:   "Acme",
			fields: []string{"Name", "Notes"},
			want:   `OR(FIND(LOWER("Acme"), LOWER({Name})), FIND(LOWER("Acme"), LOWER({Notes})))`,
		},
		{
			name:   "quotes and backslashes escaped",
			term:   `say "hi" \o/`,
			fields: []string{"Notes"},
			want:   `FIND(LOWER("say \"hi\" \\o/"), LOWER({Notes}))`,
		},
		{
			name:   "closing brace in field name",
			term:   "x",
			fields: []string{"Odd}Name"},
			want:   `FIND(LOWER("x"), LOWER({Odd\}Name}))`,
		},
		{
			name:   "blank field names skipped",
			term:   "x",
			fields: []string{" ", "Name"},
			want:   `FIND(LOWER("x"), LOWER({Name}))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildSearchFormula(tt.term, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSearchFormulaNoFields(t *testing.T) {
	_, err := BuildSearchFormula("x", nil)
	assert.ErrorIs(t, err, ErrNoSearchableFields)
}

func TestSearchableFields(t *testing.T) {
	table := Table{Fields: []Field{
		{ID: "fld1", Name: "Name", Type: "singleLineText"},
		{ID: "fld2", Name: "Count", Type: "number"},
		{ID: "fld3", Name: "Email", Type: "email"},
		{ID: "fld4", Name: "Attachments", Type: "multipleAttachments"},
		{ID: "fld5", Name: "Bio", Type: "richText"},
	}}
	assert.Equal(t, []string{"Name", "Email", "Bio"}, SearchableFields(table))
	assert.Empty(t, SearchableFields(Table{}))
}

func TestResolveSearchFields(t *testing.T) {
	table := Table{Name: "Contacts", Fields: []Field{
		{ID: "fldName", Name: "Name", Type: "singleLineText"},
		{ID: "fldAge", Name: "Age", Type: "number"},
		{ID: "fldNotes", Name: "Notes", Type: "multilineText"},
	}}

	got, err := ResolveSearchFields(table, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Notes"}, got)

	got, err = ResolveSearchFields(table, []string{"fldNotes", "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes", "Name"}, got)

	_, err = ResolveSearchFields(table, []string{"fldAge"})
	assert.ErrorIs(t, err, ErrNoSearchableFields)
	assert.ErrorContains(t, err, "number")

	_, err = ResolveSearchFields(table, []string{"fldMissing"})
	assert.ErrorIs(t, err, ErrNoSearchableFields)

	_, err = ResolveSearchFields(Table{Name: "Empty"}, nil)
	assert.ErrorIs(t, err, ErrNoSearchableFields)
}

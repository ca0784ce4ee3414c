package airtable

import "fmt"

// DetailLevel controls how much of a table schema is returned.
type DetailLevel string

const (
	// DetailTableIdentifiers keeps only table id and name.
	DetailTableIdentifiers DetailLevel = "tableIdentifiersOnly"
	// DetailIdentifiers keeps table, field and view ids and names.
	DetailIdentifiers DetailLevel = "identifiersOnly"
	// DetailFull keeps everything.
	DetailFull DetailLevel = "full"
)

// ParseDetailLevel maps user input onto a DetailLevel. Empty means full.
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch DetailLevel(s) {
	case "":
		return DetailFull, nil
	case DetailTableIdentifiers, DetailIdentifiers, DetailFull:
		return DetailLevel(s), nil
	default:
		return "", fmt.Errorf("invalid detail level %q (want %s, %s or %s)",
			s, DetailTableIdentifiers, DetailIdentifiers, DetailFull)
	}
}

// Shape returns a copy of t trimmed to the given detail level.
func Shape(t Table, level DetailLevel) Table {
	switch level {
	case DetailTableIdentifiers:
		return Table{ID: t.ID, Name: t.Name}
	case DetailIdentifiers:
		out := Table{ID: t.ID, Name: t.Name}
		for _, f := range t.Fields {
			out.Fields = append(out.Fields, Field{ID: f.ID, Name: f.Name})
		}
		for _, v := range t.Views {
			out.Views = append(out.Views, View{ID: v.ID, Name: v.Name})
		}
		return out
	default:
		return t
	}
}

// ShapeAll applies Shape to every table.
func ShapeAll(tables []Table, level DetailLevel) []Table {
	out := make([]Table, len(tables))
	for i, t := range tables {
		out[i] = Shape(t, level)
	}
	return out
}

package airtable

import (
	"fmt"
	"slices"
	"strings"
)

// searchableTypes are the field types FIND can operate on directly.
var searchableTypes = []string{
	"singleLineText",
	"multilineText",
	"richText",
	"email",
	"url",
	"phoneNumber",
}

// SearchableFields returns the names of the text-typed fields of t.
func SearchableFields(t Table) []string {
	var names []string
	for _, f := range t.Fields {
		if slices.Contains(searchableTypes, f.Type) {
			names = append(names, f.Name)
		}
	}
	return names
}

// ResolveSearchFields maps requested field ids or names onto t's schema and
// returns their names. With no request every text field is used. Unknown or
// non-text fields fail with ErrNoSearchableFields.
func ResolveSearchFields(t Table, requested []string) ([]string, error) {
	if len(requested) == 0 {
		names := SearchableFields(t)
		if len(names) == 0 {
			return nil, fmt.Errorf("table %s: %w", t.Name, ErrNoSearchableFields)
		}
		return names, nil
	}

	names := make([]string, 0, len(requested))
	for _, want := range requested {
		f, ok := findField(t, want)
		if !ok {
			return nil, fmt.Errorf("field %q not in table %s: %w", want, t.Name, ErrNoSearchableFields)
		}
		if !slices.Contains(searchableTypes, f.Type) {
			return nil, fmt.Errorf("field %q has type %s: %w", f.Name, f.Type, ErrNoSearchableFields)
		}
		names = append(names, f.Name)
	}
	return names, nil
}

func findField(t Table, idOrName string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == idOrName {
			return f, true
		}
	}
	for _, f := range t.Fields {
		if strings.EqualFold(f.Name, idOrName) {
			return f, true
		}
	}
	return Field{}, false
}

// BuildSearchFormula returns a case-insensitive filter formula matching term
// in any of fields.
func BuildSearchFormula(term string, fields []string) (string, error) {
	var clauses []string
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf(`FIND(LOWER("%s"), LOWER({%s}))`, escapeString(term), escapeField(f)))
	}
	if len(clauses) == 0 {
		return "", ErrNoSearchableFields
	}
	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return "OR(" + strings.Join(clauses, ", ") + ")", nil
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func escapeField(s string) string {
	return strings.ReplaceAll(s, "}", `\}`)
}

// Package airtable wraps the Airtable REST client behind a small service
// interface used by the MCP tools.
package airtable

import "context"

// Service is the set of Airtable operations exposed over MCP.
type Service interface {
	ListBases(ctx context.Context) ([]Base, error)
	ListTables(ctx context.Context, baseID string) ([]Table, error)
	DescribeTable(ctx context.Context, baseID, table string) (*Table, error)
	ListRecords(ctx context.Context, baseID, table string, opts ListOptions) ([]Record, error)
	SearchRecords(ctx context.Context, baseID, table string, opts SearchOptions) ([]Record, error)
	GetRecord(ctx context.Context, baseID, table, recordID string) (*Record, error)
	CreateRecord(ctx context.Context, baseID, table string, fields map[string]any) (*Record, error)
	UpdateRecords(ctx context.Context, baseID, table string, records []Record) ([]Record, error)
	DeleteRecords(ctx context.Context, baseID, table string, ids []string) ([]DeletedRecord, error)
}

// Base is an Airtable base visible to the credential.
type Base struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PermissionLevel string `json:"permissionLevel,omitempty"`
}

// Table is a table schema within a base.
type Table struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Description    string  `json:"description,omitempty"`
	PrimaryFieldID string  `json:"primaryFieldId,omitempty"`
	Fields         []Field `json:"fields,omitempty"`
	Views          []View  `json:"views,omitempty"`
}

// Field is a column definition.
type Field struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// View is a saved table view.
type View struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// Record is a single table row.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// DeletedRecord reports the outcome of a delete for one id.
type DeletedRecord struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ListOptions narrows a record listing.
type ListOptions struct {
	View          string
	FilterFormula string
	Fields        []string
	// MaxRecords caps the total across all pages. Zero means no cap.
	MaxRecords int
}

// SearchOptions describes a free-text search across fields.
type SearchOptions struct {
	Term string
	// Fields to search. Empty means every text-typed field of the table.
	Fields     []string
	View       string
	MaxRecords int
}

package tools

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/airtable"
)

// maxRecordsLimit bounds how many records one call may return.
const maxRecordsLimit = 1000

// defaultMaxRecords is used when the caller gives no limit.
const defaultMaxRecords = 100

// ListRecordsInput defines the input schema for the list_records tool.
type ListRecordsInput struct {
	BaseID        string   `json:"baseId" jsonschema:"ID of the base"`
	TableID       string   `json:"tableId" jsonschema:"ID or name of the table"`
	View          string   `json:"view,omitempty" jsonschema:"Only return records visible in this view"`
	FilterFormula string   `json:"filterByFormula,omitempty" jsonschema:"Airtable formula; records where it is truthy are returned"`
	Fields        []string `json:"fields,omitempty" jsonschema:"Only return these fields"`
	MaxRecords    int      `json:"maxRecords,omitempty" jsonschema:"Max records 1-1000, default 100"`
}

// SearchRecordsInput defines the input schema for the search_records tool.
type SearchRecordsInput struct {
	BaseID     string   `json:"baseId" jsonschema:"ID of the base"`
	TableID    string   `json:"tableId" jsonschema:"ID or name of the table"`
	SearchTerm string   `json:"searchTerm" jsonschema:"Text to look for (case-insensitive)"`
	FieldIDs   []string `json:"fieldIds,omitempty" jsonschema:"Fields to search; defaults to every text field"`
	View       string   `json:"view,omitempty" jsonschema:"Only search records visible in this view"`
	MaxRecords int      `json:"maxRecords,omitempty" jsonschema:"Max records 1-1000, default 100"`
}

// GetRecordInput defines the input schema for the get_record tool.
type GetRecordInput struct {
	BaseID   string `json:"baseId" jsonschema:"ID of the base"`
	TableID  string `json:"tableId" jsonschema:"ID or name of the table"`
	RecordID string `json:"recordId" jsonschema:"ID of the record, e.g. recXXXXXXXXXXXXXX"`
}

// RecordsResult is the response from the listing tools.
type RecordsResult struct {
	Records []airtable.Record `json:"records"`
	Count   int               `json:"count"`
}

// resolveMaxRecords applies the default and the upper bound.
func resolveMaxRecords(n int) (int, *mcp.CallToolResult) {
	switch {
	case n <= 0:
		return defaultMaxRecords, nil
	case n > maxRecordsLimit:
		return 0, ErrorResult("maxRecords must be 1-1000", "Reduce maxRecords or narrow the filter")
	default:
		return n, nil
	}
}

func requireTable(baseID, tableID string) *mcp.CallToolResult {
	if strings.TrimSpace(baseID) == "" || strings.TrimSpace(tableID) == "" {
		return ErrorResult("baseId and tableId are required", "Call list_bases and list_tables to find ids")
	}
	return nil
}

// NewListRecordsHandler creates the list_records tool handler.
func NewListRecordsHandler(deps *Dependencies) mcp.ToolHandlerFor[ListRecordsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListRecordsInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if errResult := requireTable(input.BaseID, input.TableID); errResult != nil {
			return errResult, nil, nil
		}
		limit, errResult := resolveMaxRecords(input.MaxRecords)
		if errResult != nil {
			return errResult, nil, nil
		}

		records, err := svc.ListRecords(ctx, input.BaseID, input.TableID, airtable.ListOptions{
			View:          input.View,
			FilterFormula: input.FilterFormula,
			Fields:        input.Fields,
			MaxRecords:    limit,
		})
		if err != nil {
			deps.Logger.Error("list records failed", "base", input.BaseID, "table", input.TableID, "error", err)
			return APIErrorResult("list records", err), nil, nil
		}

		deps.Logger.Info("records listed", "table", input.TableID, "count", len(records))
		return JSONResult(RecordsResult{Records: nonNil(records), Count: len(records)}), nil, nil
	}
}

// NewSearchRecordsHandler creates the search_records tool handler.
func NewSearchRecordsHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchRecordsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchRecordsInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if errResult := requireTable(input.BaseID, input.TableID); errResult != nil {
			return errResult, nil, nil
		}
		if strings.TrimSpace(input.SearchTerm) == "" {
			return ErrorResult("searchTerm cannot be empty", "Provide text to search for"), nil, nil
		}
		limit, errResult := resolveMaxRecords(input.MaxRecords)
		if errResult != nil {
			return errResult, nil, nil
		}

		records, err := svc.SearchRecords(ctx, input.BaseID, input.TableID, airtable.SearchOptions{
			Term:       input.SearchTerm,
			Fields:     input.FieldIDs,
			View:       input.View,
			MaxRecords: limit,
		})
		if err != nil {
			deps.Logger.Error("search records failed", "table", input.TableID, "error", err)
			return APIErrorResult("search records", err), nil, nil
		}

		deps.Logger.Info("records searched", "table", input.TableID, "term", shorten(input.SearchTerm, 30), "count", len(records))
		return JSONResult(RecordsResult{Records: nonNil(records), Count: len(records)}), nil, nil
	}
}

// NewGetRecordHandler creates the get_record tool handler.
func NewGetRecordHandler(deps *Dependencies) mcp.ToolHandlerFor[GetRecordInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetRecordInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if errResult := requireTable(input.BaseID, input.TableID); errResult != nil {
			return errResult, nil, nil
		}
		if input.RecordID == "" {
			return ErrorResult("recordId is required", "Use list_records or search_records to find record ids"), nil, nil
		}

		record, err := svc.GetRecord(ctx, input.BaseID, input.TableID, input.RecordID)
		if err != nil {
			deps.Logger.Error("get record failed", "record", input.RecordID, "error", err)
			return APIErrorResult("get record", err), nil, nil
		}
		return JSONResult(record), nil, nil
	}
}

// nonNil keeps empty listings rendered as [] rather than null.
// shorten cuts s to n runes for logging.
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func nonNil(records []airtable.Record) []airtable.Record {
	if records == nil {
		return []airtable.Record{}
	}
	return records
}

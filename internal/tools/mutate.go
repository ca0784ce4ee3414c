package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/airtable"
)

// maxBatch is the Airtable per-request limit for writes.
const maxBatch = 10

// CreateRecordInput defines the input schema for the create_record tool.
type CreateRecordInput struct {
	BaseID  string         `json:"baseId" jsonschema:"ID of the base"`
	TableID string         `json:"tableId" jsonschema:"ID or name of the table"`
	Fields  map[string]any `json:"fields" jsonschema:"Field name to value mapping for the new record"`
}

// RecordUpdate is one entry of an update_records call.
type RecordUpdate struct {
	ID     string         `json:"id" jsonschema:"ID of the record to update"`
	Fields map[string]any `json:"fields" jsonschema:"Fields to change; others are left untouched"`
}

// UpdateRecordsInput defines the input schema for the update_records tool.
type UpdateRecordsInput struct {
	BaseID  string         `json:"baseId" jsonschema:"ID of the base"`
	TableID string         `json:"tableId" jsonschema:"ID or name of the table"`
	Records []RecordUpdate `json:"records" jsonschema:"Up to 10 records to update"`
}

// DeleteRecordsInput defines the input schema for the delete_records tool.
type DeleteRecordsInput struct {
	BaseID    string   `json:"baseId" jsonschema:"ID of the base"`
	TableID   string   `json:"tableId" jsonschema:"ID or name of the table"`
	RecordIDs []string `json:"recordIds" jsonschema:"Up to 10 record ids to delete"`
}

// DeleteRecordsResult is the response from the delete_records tool.
type DeleteRecordsResult struct {
	Records []airtable.DeletedRecord `json:"records"`
	Deleted int                      `json:"deleted"`
}

// NewCreateRecordHandler creates the create_record tool handler.
func NewCreateRecordHandler(deps *Dependencies) mcp.ToolHandlerFor[CreateRecordInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateRecordInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if errResult := requireTable(input.BaseID, input.TableID); errResult != nil {
			return errResult, nil, nil
		}
		if len(input.Fields) == 0 {
			return ErrorResult("fields cannot be empty", "Call describe_table to see the available fields"), nil, nil
		}

		record, err := svc.CreateRecord(ctx, input.BaseID, input.TableID, input.Fields)
		if err != nil {
			deps.Logger.Error("create record failed", "table", input.TableID, "error", err)
			return APIErrorResult("create record", err), nil, nil
		}
		deps.Logger.Info("record created", "table", input.TableID, "id", record.ID)
		return JSONResult(record), nil, nil
	}
}

// NewUpdateRecordsHandler creates the update_records tool handler.
func NewUpdateRecordsHandler(deps *Dependencies) mcp.ToolHandlerFor[UpdateRecordsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input UpdateRecordsInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if errResult := requireTable(input.BaseID, input.TableID); errResult != nil {
			return errResult, nil, nil
		}
		if len(input.Records) == 0 || len(input.Records) > maxBatch {
			return ErrorResult("records must contain 1-10 entries", "Split larger updates into several calls"), nil, nil
		}

		updates := make([]airtable.Record, 0, len(input.Records))
		for i, r := range input.Records {
			if r.ID == "" {
				return ErrorResult(fmt.Sprintf("records[%d].id is required", i), ""), nil, nil
			}
			updates = append(updates, airtable.Record{ID: r.ID, Fields: r.Fields})
		}

		records, err := svc.UpdateRecords(ctx, input.BaseID, input.TableID, updates)
		if err != nil {
			deps.Logger.Error("update records failed", "table", input.TableID, "error", err)
			return APIErrorResult("update records", err), nil, nil
		}
		deps.Logger.Info("records updated", "table", input.TableID, "count", len(records))
		return JSONResult(RecordsResult{Records: nonNil(records), Count: len(records)}), nil, nil
	}
}

// NewDeleteRecordsHandler creates the delete_records tool handler.
func NewDeleteRecordsHandler(deps *Dependencies) mcp.ToolHandlerFor[DeleteRecordsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DeleteRecordsInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if errResult := requireTable(input.BaseID, input.TableID); errResult != nil {
			return errResult, nil, nil
		}
		if len(input.RecordIDs) == 0 || len(input.RecordIDs) > maxBatch {
			return ErrorResult("recordIds must contain 1-10 ids", "Split larger deletes into several calls"), nil, nil
		}

		deleted, err := svc.DeleteRecords(ctx, input.BaseID, input.TableID, input.RecordIDs)
		if err != nil {
			deps.Logger.Error("delete records failed", "table", input.TableID, "error", err)
			return APIErrorResult("delete records", err), nil, nil
		}

		n := 0
		for _, d := range deleted {
			if d.Deleted {
				n++
			}
		}
		deps.Logger.Info("records deleted", "table", input.TableID, "count", n)
		return JSONResult(DeleteRecordsResult{Records: deleted, Deleted: n}), nil, nil
	}
}

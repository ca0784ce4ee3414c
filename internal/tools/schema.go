package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/airtable"
)

// ListBasesInput defines the input schema for the list_bases tool.
type ListBasesInput struct{}

// ListTablesInput defines the input schema for the list_tables tool.
type ListTablesInput struct {
	BaseID      string `json:"baseId" jsonschema:"ID of the base, e.g. appXXXXXXXXXXXXXX"`
	DetailLevel string `json:"detailLevel,omitempty" jsonschema:"tableIdentifiersOnly, identifiersOnly or full (default)"`
}

// DescribeTableInput defines the input schema for the describe_table tool.
type DescribeTableInput struct {
	BaseID      string `json:"baseId" jsonschema:"ID of the base"`
	TableID     string `json:"tableId" jsonschema:"ID or name of the table"`
	DetailLevel string `json:"detailLevel,omitempty" jsonschema:"tableIdentifiersOnly, identifiersOnly or full (default)"`
}

// NewListBasesHandler creates the list_bases tool handler.
func NewListBasesHandler(deps *Dependencies) mcp.ToolHandlerFor[ListBasesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListBasesInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}

		bases, err := svc.ListBases(ctx)
		if err != nil {
			deps.Logger.Error("list bases failed", "error", err)
			return APIErrorResult("list bases", err), nil, nil
		}
		deps.Logger.Info("bases listed", "count", len(bases))
		return JSONResult(map[string]any{"bases": bases, "count": len(bases)}), nil, nil
	}
}

// NewListTablesHandler creates the list_tables tool handler.
func NewListTablesHandler(deps *Dependencies) mcp.ToolHandlerFor[ListTablesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListTablesInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if strings.TrimSpace(input.BaseID) == "" {
			return ErrorResult("baseId is required", "Call list_bases to find base ids"), nil, nil
		}
		level, err := airtable.ParseDetailLevel(input.DetailLevel)
		if err != nil {
			return ErrorResult(err.Error(), ""), nil, nil
		}

		tables, err := svc.ListTables(ctx, input.BaseID)
		if err != nil {
			deps.Logger.Error("list tables failed", "base", input.BaseID, "error", err)
			return APIErrorResult("list tables", err), nil, nil
		}
		return JSONResult(map[string]any{"tables": airtable.ShapeAll(tables, level)}), nil, nil
	}
}

// NewDescribeTableHandler creates the describe_table tool handler.
func NewDescribeTableHandler(deps *Dependencies) mcp.ToolHandlerFor[DescribeTableInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DescribeTableInput) (
		*mcp.CallToolResult, any, error,
	) {
		svc, errResult := deps.service()
		if errResult != nil {
			return errResult, nil, nil
		}
		if input.BaseID == "" || input.TableID == "" {
			return ErrorResult("baseId and tableId are required", "Call list_tables to find table ids"), nil, nil
		}
		level, err := airtable.ParseDetailLevel(input.DetailLevel)
		if err != nil {
			return ErrorResult(err.Error(), ""), nil, nil
		}

		table, err := svc.DescribeTable(ctx, input.BaseID, input.TableID)
		if err != nil {
			deps.Logger.Error("describe table failed", "base", input.BaseID, "table", input.TableID, "error", err)
			return APIErrorResult("describe table", err), nil, nil
		}
		return JSONResult(airtable.Shape(*table, level)), nil, nil
	}
}

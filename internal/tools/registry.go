package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registry counts tools as they are added.
type registry struct {
	server *mcp.Server
	count  int
}

func add[In any](r *registry, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, any]) {
	mcp.AddTool(r.server, tool, handler)
	r.count++
}

// RegisterAll registers all tools with the MCP server and returns how many
// were added. This is called from main after server creation but before Run().
// Tools are registered even when deps.Airtable is nil so clients can still
// discover them; each call then explains how to configure the key.
func RegisterAll(server *mcp.Server, deps *Dependencies) int {
	r := &registry{server: server}

	add(r, &mcp.Tool{
		Name:        "list_bases",
		Description: "List the Airtable bases the API key can access",
	}, NewListBasesHandler(deps))

	add(r, &mcp.Tool{
		Name:        "list_tables",
		Description: "List the tables of a base with their fields and views",
	}, NewListTablesHandler(deps))

	add(r, &mcp.Tool{
		Name:        "describe_table",
		Description: "Describe one table's schema: fields, types and views",
	}, NewDescribeTableHandler(deps))

	add(r, &mcp.Tool{
		Name:        "list_records",
		Description: "List records from a table, optionally filtered by view or formula",
	}, NewListRecordsHandler(deps))

	add(r, &mcp.Tool{
		Name:        "search_records",
		Description: "Search a table for records containing text (case-insensitive)",
	}, NewSearchRecordsHandler(deps))

	add(r, &mcp.Tool{
		Name:        "get_record",
		Description: "Retrieve a single record by its ID",
	}, NewGetRecordHandler(deps))

	add(r, &mcp.Tool{
		Name:        "create_record",
		Description: "Create a record in a table",
	}, NewCreateRecordHandler(deps))

	// Write tools - partial update semantics
	add(r, &mcp.Tool{
		Name:        "update_records",
		Description: "Update fields of up to 10 records; unspecified fields are unchanged",
	}, NewUpdateRecordsHandler(deps))

	add(r, &mcp.Tool{
		Name:        "delete_records",
		Description: "Delete up to 10 records by ID",
	}, NewDeleteRecordsHandler(deps))

	return r.count
}

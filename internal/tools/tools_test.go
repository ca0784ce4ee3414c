package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/agentx-mcp/internal/airtable"
	"github.com/raphaelgruber/agentx-mcp/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeService is an in-memory airtable.Service.
type fakeService struct {
	tables  []airtable.Table
	records map[string]airtable.Record
	// err, when set, is returned by every call.
	err error

	lastList   airtable.ListOptions
	lastSearch airtable.SearchOptions
}

func newFakeService() *fakeService {
	return &fakeService{
		tables: []airtable.Table{{
			ID:   "tblContacts",
			Name: "Contacts",
			Fields: []airtable.Field{
				{ID: "fldName", Name: "Name", Type: "singleLineText"},
				{ID: "fldAge", Name: "Age", Type: "number"},
			},
			Views: []airtable.View{{ID: "viwGrid", Name: "Grid view", Type: "grid"}},
		}},
		records: map[string]airtable.Record{
			"rec1": {ID: "rec1", Fields: map[string]any{"Name": "Ada", "Age": float64(36)}},
		},
	}
}

func (f *fakeService) ListBases(context.Context) ([]airtable.Base, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []airtable.Base{{ID: "appTest", Name: "CRM", PermissionLevel: "create"}}, nil
}

func (f *fakeService) ListTables(context.Context, string) ([]airtable.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tables, nil
}

func (f *fakeService) DescribeTable(_ context.Context, _ string, table string) (*airtable.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	return airtable.FindTable(f.tables, table)
}

func (f *fakeService) ListRecords(_ context.Context, _, _ string, opts airtable.ListOptions) ([]airtable.Record, error) {
	f.lastList = opts
	if f.err != nil {
		return nil, f.err
	}
	var out []airtable.Record
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeService) SearchRecords(_ context.Context, _, _ string, opts airtable.SearchOptions) ([]airtable.Record, error) {
	f.lastSearch = opts
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeService) GetRecord(_ context.Context, _, _, id string) (*airtable.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, airtable.ErrNotFound)
	}
	return &r, nil
}

func (f *fakeService) CreateRecord(_ context.Context, _, _ string, fields map[string]any) (*airtable.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := airtable.Record{ID: fmt.Sprintf("rec%d", len(f.records)+1), Fields: fields}
	f.records[r.ID] = r
	return &r, nil
}

func (f *fakeService) UpdateRecords(_ context.Context, _, _ string, records []airtable.Record) ([]airtable.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]airtable.Record, 0, len(records))
	for _, u := range records {
		r := f.records[u.ID]
		for k, v := range u.Fields {
			r.Fields[k] = v
		}
		f.records[u.ID] = r
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeService) DeleteRecords(_ context.Context, _, _ string, ids []string) ([]airtable.DeletedRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]airtable.DeletedRecord, 0, len(ids))
	for _, id := range ids {
		_, ok := f.records[id]
		delete(f.records, id)
		out = append(out, airtable.DeletedRecord{ID: id, Deleted: ok})
	}
	return out, nil
}

// startSession registers all tools against svc and returns a connected client session.
func startSession(t *testing.T, svc airtable.Service) (*mcp.ClientSession, context.Context) {
	t.Helper()

	server := mcp.NewServer(&mcp.Implementation{Name: "test-airtable-mcp", Version: "0.0.1-test"}, nil)
	tools.RegisterAll(server, &tools.Dependencies{Airtable: svc, Logger: testLogger()})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	go func() {
		_ = server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")
	t.Cleanup(func() { _ = session.Close() })
	return session, ctx
}

func callTool(t *testing.T, ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func TestAllToolsRegistered(t *testing.T) {
	session, ctx := startSession(t, newFakeService())

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	assert.ElementsMatch(t, []string{
		"list_bases", "list_tables", "describe_table",
		"list_records", "search_records", "get_record",
		"create_record", "update_records", "delete_records",
	}, names)

	fresh := mcp.NewServer(&mcp.Implementation{Name: "count", Version: "0"}, nil)
	assert.Equal(t, len(result.Tools), tools.RegisterAll(fresh, &tools.Dependencies{}))
}

func TestToolsWithoutCredential(t *testing.T) {
	session, ctx := startSession(t, nil)

	text, isErr := callTool(t, ctx, session, "list_bases", map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, "AIRTABLE_API_KEY")

	_, isErr = callTool(t, ctx, session, "get_record", map[string]any{"baseId": "app", "tableId": "tbl", "recordId": "rec1"})
	assert.True(t, isErr)
}

func TestListBases(t *testing.T) {
	session, ctx := startSession(t, newFakeService())

	text, isErr := callTool(t, ctx, session, "list_bases", map[string]any{})
	require.False(t, isErr, text)

	var out struct {
		Bases []airtable.Base `json:"bases"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "appTest", out.Bases[0].ID)
}

func TestListTablesDetailLevels(t *testing.T) {
	session, ctx := startSession(t, newFakeService())

	text, isErr := callTool(t, ctx, session, "list_tables", map[string]any{"baseId": "appTest", "detailLevel": "tableIdentifiersOnly"})
	require.False(t, isErr, text)
	assert.NotContains(t, text, "fldName")
	assert.Contains(t, text, "tblContacts")

	text, isErr = callTool(t, ctx, session, "list_tables", map[string]any{"baseId": "appTest"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "singleLineText")

	text, isErr = callTool(t, ctx, session, "list_tables", map[string]any{"baseId": "appTest", "detailLevel": "bogus"})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid detail level")
}

func TestDescribeTable(t *testing.T) {
	session, ctx := startSession(t, newFakeService())

	text, isErr := callTool(t, ctx, session, "describe_table", map[string]any{"baseId": "appTest", "tableId": "Contacts", "detailLevel": "identifiersOnly"})
	require.False(t, isErr, text)

	var table airtable.Table
	require.NoError(t, json.Unmarshal([]byte(text), &table))
	assert.Equal(t, "tblContacts", table.ID)
	require.Len(t, table.Fields, 2)
	assert.Empty(t, table.Fields[0].Type)

	text, isErr = callTool(t, ctx, session, "describe_table", map[string]any{"baseId": "appTest", "tableId": "Missing"})
	assert.True(t, isErr)
	assert.Contains(t, text, "list_tables")
}

func TestListRecordsDefaultsAndLimits(t *testing.T) {
	svc := newFakeService()
	session, ctx := startSession(t, svc)

	text, isErr := callTool(t, ctx, session, "list_records", map[string]any{"baseId": "appTest", "tableId": "Contacts", "view": "Grid view"})
	require.False(t, isErr, text)
	assert.Equal(t, 100, svc.lastList.MaxRecords)
	assert.Equal(t, "Grid view", svc.lastList.View)
	assert.Contains(t, text, `"count": 1`)

	_, isErr = callTool(t, ctx, session, "list_records", map[string]any{"baseId": "appTest", "tableId": "Contacts", "maxRecords": 5000})
	assert.True(t, isErr)

	_, isErr = callTool(t, ctx, session, "list_records", map[string]any{"baseId": "", "tableId": "Contacts"})
	assert.True(t, isErr)
}

func TestSearchRecords(t *testing.T) {
	svc := newFakeService()
	session, ctx := startSession(t, svc)

	text, isErr := callTool(t, ctx, session, "search_records", map[string]any{
		"baseId": "appTest", "tableId": "Contacts", "searchTerm": "ada", "fieldIds": []string{"Name"},
	})
	require.False(t, isErr, text)
	assert.Equal(t, "ada", svc.lastSearch.Term)
	assert.Equal(t, []string{"Name"}, svc.lastSearch.Fields)
	assert.Contains(t, text, `"records": []`)

	_, isErr = callTool(t, ctx, session, "search_records", map[string]any{"baseId": "appTest", "tableId": "Contacts", "searchTerm": "  "})
	assert.True(t, isErr)
}

func TestGetRecord(t *testing.T) {
	session, ctx := startSession(t, newFakeService())

	text, isErr := callTool(t, ctx, session, "get_record", map[string]any{"baseId": "appTest", "tableId": "Contacts", "recordId": "rec1"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Ada")

	text, isErr = callTool(t, ctx, session, "get_record", map[string]any{"baseId": "appTest", "tableId": "Contacts", "recordId": "recMissing"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")
}

func TestCreateUpdateDelete(t *testing.T) {
	svc := newFakeService()
	session, ctx := startSession(t, svc)

	text, isErr := callTool(t, ctx, session, "create_record", map[string]any{
		"baseId": "appTest", "tableId": "Contacts", "fields": map[string]any{"Name": "Grace"},
	})
	require.False(t, isErr, text)
	var created airtable.Record
	require.NoError(t, json.Unmarshal([]byte(text), &created))
	assert.Equal(t, "Grace", created.Fields["Name"])

	text, isErr = callTool(t, ctx, session, "update_records", map[string]any{
		"baseId": "appTest", "tableId": "Contacts",
		"records": []map[string]any{{"id": "rec1", "fields": map[string]any{"Age": 37}}},
	})
	require.False(t, isErr, text)
	assert.Equal(t, "Ada", svc.records["rec1"].Fields["Name"])
	assert.EqualValues(t, 37, svc.records["rec1"].Fields["Age"])

	text, isErr = callTool(t, ctx, session, "delete_records", map[string]any{
		"baseId": "appTest", "tableId": "Contacts", "recordIds": []string{"rec1", "recNope"},
	})
	require.False(t, isErr, text)
	var deleted tools.DeleteRecordsResult
	require.NoError(t, json.Unmarshal([]byte(text), &deleted))
	assert.Equal(t, 1, deleted.Deleted)
	assert.Len(t, deleted.Records, 2)
}

func TestWriteValidation(t *testing.T) {
	session, ctx := startSession(t, newFakeService())

	_, isErr := callTool(t, ctx, session, "create_record", map[string]any{"baseId": "appTest", "tableId": "Contacts", "fields": map[string]any{}})
	assert.True(t, isErr)

	ids := make([]string, 11)
	for i := range ids {
		ids[i] = fmt.Sprintf("rec%d", i)
	}
	text, isErr := callTool(t, ctx, session, "delete_records", map[string]any{"baseId": "appTest", "tableId": "Contacts", "recordIds": ids})
	assert.True(t, isErr)
	assert.Contains(t, text, "1-10")
}

func TestServiceErrorsBecomeToolErrors(t *testing.T) {
	svc := newFakeService()
	svc.err = fmt.Errorf("list bases: %w", airtable.ErrUnauthorized)
	session, ctx := startSession(t, svc)

	text, isErr := callTool(t, ctx, session, "list_bases", map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, "unauthorized")
	assert.Contains(t, text, "API key is valid")

	svc.err = errors.New("boom")
	text, isErr = callTool(t, ctx, session, "list_records", map[string]any{"baseId": "appTest", "tableId": "Contacts"})
	assert.True(t, isErr)
	assert.Contains(t, text, "boom")
}

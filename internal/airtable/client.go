package airtable

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	at "github.com/mehanizm/airtable"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
)

// pageSize is the largest page the Airtable API returns.
const pageSize = 100

// Config holds Airtable client configuration.
type Config struct {
	APIKey string
	// BaseURL overrides the API root, e.g. for a proxy. Empty keeps the default.
	BaseURL string
}

// Client implements Service on top of github.com/mehanizm/airtable.
type Client struct {
	api       *at.Client
	logger    *slog.Logger
	collector *metrics.Collector
}

// Compile-time check that Client implements Service.
var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCollector records API call timings.
func WithCollector(m *metrics.Collector) Option {
	return func(c *Client) { c.collector = m }
}

// NewClient creates an Airtable client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("airtable API key required")
	}

	api := at.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		if err := api.SetBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("set base url: %w", err)
		}
	}

	c := &Client{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call runs fn with timing, metrics and error mapping.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := wrapAPIError(fn(ctx))
	dur := time.Since(start)
	c.collector.RecordTiming(metrics.OpAirtable, dur, err)
	if err != nil {
		c.logger.Debug("airtable call failed", "op", op, "duration_ms", dur.Milliseconds(), "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("airtable call", "op", op, "duration_ms", dur.Milliseconds())
	return nil
}

// ListBases returns every base the credential can see.
func (c *Client) ListBases(ctx context.Context) ([]Base, error) {
	var out []Base
	offset := ""
	for {
		var page *at.Bases
		err := c.call(ctx, "list bases", func(ctx context.Context) (err error) {
			page, err = c.api.GetBases().WithOffset(offset).DoContext(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, b := range page.Bases {
			out = append(out, Base{ID: b.ID, Name: b.Name, PermissionLevel: b.PermissionLevel})
		}
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// ListTables returns the schema of every table in a base.
func (c *Client) ListTables(ctx context.Context, baseID string) ([]Table, error) {
	var schema *at.Tables
	err := c.call(ctx, "get base schema", func(ctx context.Context) (err error) {
		schema, err = c.api.GetBaseSchema(baseID).DoContext(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		tables = append(tables, convertTable(t))
	}
	return tables, nil
}

// DescribeTable returns one table's schema, matched by id or name.
func (c *Client) DescribeTable(ctx context.Context, baseID, table string) (*Table, error) {
	tables, err := c.ListTables(ctx, baseID)
	if err != nil {
		return nil, err
	}
	return FindTable(tables, table)
}

// FindTable picks a table by id, falling back to a case-insensitive name match.
func FindTable(tables []Table, idOrName string) (*Table, error) {
	for i := range tables {
		if tables[i].ID == idOrName {
			return &tables[i], nil
		}
	}
	for i := range tables {
		if strings.EqualFold(tables[i].Name, idOrName) {
			return &tables[i], nil
		}
	}
	return nil, fmt.Errorf("table %q: %w", idOrName, ErrNotFound)
}

// ListRecords follows pagination until exhausted or MaxRecords is reached.
func (c *Client) ListRecords(ctx context.Context, baseID, table string, opts ListOptions) ([]Record, error) {
	tbl := c.api.GetTable(baseID, table)

	var out []Record
	offset := ""
	for {
		req := tbl.GetRecords().PageSize(pageSize)
		if opts.View != "" {
			req = req.FromView(opts.View)
		}
		if opts.FilterFormula != "" {
			req = req.WithFilterFormula(opts.FilterFormula)
		}
		if len(opts.Fields) > 0 {
			req = req.ReturnFields(opts.Fields...)
		}
		if opts.MaxRecords > 0 {
			req = req.MaxRecords(opts.MaxRecords)
		}
		if offset != "" {
			req = req.WithOffset(offset)
		}

		var page *at.Records
		err := c.call(ctx, "list records", func(ctx context.Context) (err error) {
			page, err = req.DoContext(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, r := range page.Records {
			out = append(out, convertRecord(r))
			if opts.MaxRecords > 0 && len(out) >= opts.MaxRecords {
				return out, nil
			}
		}
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// SearchRecords finds records whose text fields contain opts.Term. Requested
// fields are checked against the table schema before any records are fetched.
func (c *Client) SearchRecords(ctx context.Context, baseID, table string, opts SearchOptions) ([]Record, error) {
	t, err := c.DescribeTable(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	fields, err := ResolveSearchFields(*t, opts.Fields)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", table, err)
	}

	formula, err := BuildSearchFormula(opts.Term, fields)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", table, err)
	}

	return c.ListRecords(ctx, baseID, table, ListOptions{
		View:          opts.View,
		FilterFormula: formula,
		MaxRecords:    opts.MaxRecords,
	})
}

// GetRecord fetches one record by id.
func (c *Client) GetRecord(ctx context.Context, baseID, table, recordID string) (*Record, error) {
	var rec *at.Record
	err := c.call(ctx, "get record", func(ctx context.Context) (err error) {
		rec, err = c.api.GetTable(baseID, table).GetRecordContext(ctx, recordID)
		return err
	})
	if err != nil {
		return nil, err
	}
	r := convertRecord(rec)
	return &r, nil
}

// CreateRecord inserts one record and returns it as stored.
func (c *Client) CreateRecord(ctx context.Context, baseID, table string, fields map[string]any) (*Record, error) {
	var created *at.Records
	err := c.call(ctx, "create record", func(ctx context.Context) (err error) {
		created, err = c.api.GetTable(baseID, table).AddRecordsContext(ctx, &at.Records{
			Records: []*at.Record{{Fields: fields}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(created.Records) == 0 {
		return nil, fmt.Errorf("create record: empty response")
	}
	r := convertRecord(created.Records[0])
	return &r, nil
}

// UpdateRecords patches the given fields of each record, leaving others untouched.
func (c *Client) UpdateRecords(ctx context.Context, baseID, table string, records []Record) ([]Record, error) {
	in := &at.Records{Records: make([]*at.Record, 0, len(records))}
	for _, r := range records {
		in.Records = append(in.Records, &at.Record{ID: r.ID, Fields: r.Fields})
	}

	var updated *at.Records
	err := c.call(ctx, "update records", func(ctx context.Context) (err error) {
		updated, err = c.api.GetTable(baseID, table).UpdateRecordsPartialContext(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(updated.Records))
	for _, r := range updated.Records {
		out = append(out, convertRecord(r))
	}
	return out, nil
}

// DeleteRecords removes records by id.
func (c *Client) DeleteRecords(ctx context.Context, baseID, table string, ids []string) ([]DeletedRecord, error) {
	var deleted *at.Records
	err := c.call(ctx, "delete records", func(ctx context.Context) (err error) {
		deleted, err = c.api.GetTable(baseID, table).DeleteRecordsContext(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]DeletedRecord, 0, len(deleted.Records))
	for _, r := range deleted.Records {
		out = append(out, DeletedRecord{ID: r.ID, Deleted: r.Deleted})
	}
	return out, nil
}

func convertRecord(r *at.Record) Record {
	return Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: r.Fields}
}

func convertTable(t *at.TableSchema) Table {
	out := Table{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		PrimaryFieldID: t.PrimaryFieldID,
	}
	for _, f := range t.Fields {
		out.Fields = append(out.Fields, Field{ID: f.ID, Name: f.Name, Type: f.Type, Description: f.Description})
	}
	for _, v := range t.Views {
		out.Views = append(out.Views, View{ID: v.ID, Name: v.Name, Type: v.Type})
	}
	return out
}

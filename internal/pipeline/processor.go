package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/ingest"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
)

// Dataset is everything derived from one accepted spreadsheet.
type Dataset struct {
	ID           string // content hash
	Source       string
	Columns      schema.Columns
	Records      []entity.TypedRecord
	Transactions []entity.Transaction
	Summaries    []entity.CustomerSummary
}

// Processor coordinates validation, coercion, consolidation and summarizing.
type Processor struct {
	Logger   *slog.Logger
	Aliases  *schema.AliasTable
	Required []constants.Field
}

func NewProcessor(logger *slog.Logger, aliases *schema.AliasTable) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if aliases == nil {
		aliases = schema.DefaultAliasTable()
	}
	return &Processor{Logger: logger, Aliases: aliases, Required: constants.RequiredFields}
}

// Validate resolves the sheet headers or returns a *schema.MissingFieldsError.
func (p *Processor) Validate(headers []string) (schema.Columns, error) {
	cols, err := schema.Resolve(headers, p.Required, p.Aliases)
	if err != nil {
		p.Logger.Warn("processor.validate.failed", "headers", headers, "err", err)
		return nil, err
	}
	p.Logger.Debug("processor.validate.ok", "columns", len(cols))
	return cols, nil
}

// Aggregate runs the typed stages over records already known to match cols.
func (p *Processor) Aggregate(ctx context.Context, cols schema.Columns, records []entity.RawRecord) (*Dataset, error) {
	start := time.Now()
	typed, err := Coerce(records, cols)
	if err != nil {
		p.Logger.Warn("processor.coerce.failed", "err", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txs := Consolidate(typed)
	sums := Summarize(txs)

	p.Logger.Info("processor.aggregate.ok",
		"records", len(typed),
		"transactions", len(txs),
		"summaries", len(sums),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Dataset{Columns: cols, Records: typed, Transactions: txs, Summaries: sums}, nil
}

// Run validates then aggregates an ingested sheet.
func (p *Processor) Run(ctx context.Context, res ingest.IngestionResult) (*Dataset, error) {
	cols, err := p.Validate(res.Sheet.Headers)
	if err != nil {
		return nil, err
	}
	ds, err := p.Aggregate(ctx, cols, res.Sheet.Records)
	if err != nil {
		return nil, err
	}
	ds.ID = res.HashHex
	ds.Source = res.Filename
	return ds, nil
}
